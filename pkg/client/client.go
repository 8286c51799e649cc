// Copyright (c) 2026 Sable. All rights reserved.

// Package client is the Go SDK for the Sable tag service, used by the bot
// shards' chat commands.
//
// It mirrors the command-facing contract: name and content arguments are
// validated against the platform length bounds before any request is sent,
// exact-name resolution reports a user-facing not-found distinct from
// transport errors, and the mutation helpers refuse locally when the acting
// user neither owns the tag nor holds Manage Messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/sablebot/sable/pkg/permissions"
)

const (
	// NameMaxLen is the longest accepted tag name.
	NameMaxLen = 100
	// ContentMaxLen is the longest accepted tag content, bounded by the chat
	// platform message limit less command overhead.
	ContentMaxLen = 1998
)

var (
	// ErrNameTooLong is returned by [ValidateName]; its text is shown to the
	// invoking user as-is.
	ErrNameTooLong = errors.New("Tag name must be 100 or fewer characters.")
	// ErrContentTooLong is returned by [ValidateContent]; its text is shown to
	// the invoking user as-is.
	ErrContentTooLong = errors.New("Message must be 1998 or fewer characters.")
	// ErrTagNotFound reports that resolution found no tag by that name. It is
	// distinct from transport or server errors, which surface as [*APIError]
	// or plain errors.
	ErrTagNotFound = errors.New("tag not found")
	// ErrMutationDenied reports that the acting user may not mutate the tag.
	// No request is sent when a mutation helper returns it.
	ErrMutationDenied = errors.New("you must own this tag or have the Manage Messages permission")
)

// Tag is the wire representation of a tag resource.
type Tag struct {
	ID      int64  `json:"id"`
	GuildID int64  `json:"guild_id,omitempty"`
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// User identifies a tag owner as the service's user directory expects it.
type User struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username,omitempty"`
	Discriminator string  `json:"discriminator,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
}

// Patch carries a partial update. Nil fields are left unchanged; at least one
// must be set.
type Patch struct {
	Owner   *User   `json:"user,omitempty"`
	Name    *string `json:"name,omitempty"`
	Content *string `json:"content,omitempty"`
}

// APIError is a non-2xx response decoded from the service's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to one Sable API deployment on behalf of a bot shard.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// New creates a client for the service at baseURL authenticating with the
// given bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// # Input validation

// ValidateName checks a user-typed tag name against the length bound. The
// server enforces the same bound as a backstop.
func ValidateName(name string) error {
	if utf8.RuneCountInString(name) > NameMaxLen {
		return ErrNameTooLong
	}
	return nil
}

// ValidateContent checks user-typed tag content against the length bound.
func ValidateContent(content string) error {
	if utf8.RuneCountInString(content) > ContentMaxLen {
		return ErrContentTooLong
	}
	return nil
}

// CanMutate reports whether the acting user may delete, rename, edit, or
// transfer the tag: they own it, or they hold Manage Messages in the guild.
func CanMutate(t Tag, callerID int64, callerPerms permissions.Set) bool {
	return t.UserID == callerID || callerPerms.Has(permissions.ManageMessages)
}

// # Resource operations

// CreateTag creates a tag owned by owner and returns its assigned id.
func (c *Client) CreateTag(ctx context.Context, guildID int64, owner User, name, content string) (int64, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	if err := ValidateContent(content); err != nil {
		return 0, err
	}

	body := map[string]any{"user": owner, "name": name, "content": content}

	var created struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/guilds/%d/tags", guildID), body, &created)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Tags lists every tag in the guild.
func (c *Client) Tags(ctx context.Context, guildID int64) ([]Tag, error) {
	return c.list(ctx, guildID, url.Values{})
}

// SearchTags lists the guild's tags whose names contain the query,
// case-insensitively.
func (c *Client) SearchTags(ctx context.Context, guildID int64, query string) ([]Tag, error) {
	return c.list(ctx, guildID, url.Values{"query": {query}})
}

// MemberTags lists the tags a member owns within the guild.
func (c *Client) MemberTags(ctx context.Context, guildID, userID int64) ([]Tag, error) {
	var tags []Tag
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%d/tags/members/%d", guildID, userID), nil, &tags)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Resolve looks up a tag by its exact name, case-insensitively, within the
// guild. A miss returns [ErrTagNotFound]; any other failure is a transport or
// server error and must not be presented as a missing tag.
func (c *Client) Resolve(ctx context.Context, guildID int64, name string) (*Tag, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	tags, err := c.list(ctx, guildID, url.Values{"name": {name}})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrTagNotFound
	}

	return &tags[0], nil
}

// UpdateTag applies a partial update and returns the updated tag.
func (c *Client) UpdateTag(ctx context.Context, guildID, tagID int64, patch Patch) (*Tag, error) {
	if patch.Name != nil {
		if err := ValidateName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Content != nil {
		if err := ValidateContent(*patch.Content); err != nil {
			return nil, err
		}
	}

	var updated Tag
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/guilds/%d/tags/%d", guildID, tagID), patch, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTag deletes the tag by id.
func (c *Client) DeleteTag(ctx context.Context, guildID, tagID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/guilds/%d/tags/%d", guildID, tagID), nil, nil)
}

// # Guarded command helpers
//
// These wrap the resource operations with the ownership gate: the acting
// user must satisfy [CanMutate] or the helper refuses with
// [ErrMutationDenied] before any request is issued.

// Delete removes the tag on behalf of the acting user.
func (c *Client) Delete(ctx context.Context, t Tag, callerID int64, callerPerms permissions.Set) error {
	if !CanMutate(t, callerID, callerPerms) {
		return ErrMutationDenied
	}
	return c.DeleteTag(ctx, t.GuildID, t.ID)
}

// Rename changes the tag's name on behalf of the acting user.
func (c *Client) Rename(ctx context.Context, t Tag, callerID int64, callerPerms permissions.Set, name string) (*Tag, error) {
	if !CanMutate(t, callerID, callerPerms) {
		return nil, ErrMutationDenied
	}
	return c.UpdateTag(ctx, t.GuildID, t.ID, Patch{Name: &name})
}

// Edit replaces the tag's content on behalf of the acting user.
func (c *Client) Edit(ctx context.Context, t Tag, callerID int64, callerPerms permissions.Set, content string) (*Tag, error) {
	if !CanMutate(t, callerID, callerPerms) {
		return nil, ErrMutationDenied
	}
	return c.UpdateTag(ctx, t.GuildID, t.ID, Patch{Content: &content})
}

// Transfer moves the tag to a new owner on behalf of the acting user.
func (c *Client) Transfer(ctx context.Context, t Tag, callerID int64, callerPerms permissions.Set, newOwner User) (*Tag, error) {
	if !CanMutate(t, callerID, callerPerms) {
		return nil, ErrMutationDenied
	}
	return c.UpdateTag(ctx, t.GuildID, t.ID, Patch{Owner: &newOwner})
}

// # Transport

func (c *Client) list(ctx context.Context, guildID int64, query url.Values) ([]Tag, error) {
	path := fmt.Sprintf("/guilds/%d/tags", guildID)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var tags []Tag
	if err := c.do(ctx, http.MethodGet, path, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// do issues one request and decodes the response. Non-2xx responses are
// decoded from the standard error envelope into an [*APIError].
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeAPIError(response)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func decodeAPIError(response *http.Response) error {
	apiErr := &APIError{StatusCode: response.StatusCode}

	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Error
	} else {
		apiErr.Message = http.StatusText(response.StatusCode)
	}

	return apiErr
}
