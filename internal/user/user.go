package user

// User is a chat-platform member as seen by the tag service.
//
// The service does not own user records; it mirrors whatever identity payload
// the bot last sent. ID is the only field callers are required to supply.
type User struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username,omitempty"`
	Discriminator string  `json:"discriminator,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
}
