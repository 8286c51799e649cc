package tag

// Tag is a named, owned text snippet bound to a guild.
//
// Names are unique per guild under case-insensitive comparison; content is the
// snippet the bot posts back when the tag is invoked.
type Tag struct {
	ID      int64  `json:"id"`
	GuildID int64  `json:"guild_id,omitempty"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}
