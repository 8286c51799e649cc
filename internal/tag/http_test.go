package tag_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablebot/sable/internal/platform/ctxutil"
	"github.com/sablebot/sable/internal/platform/respond"
	"github.com/sablebot/sable/internal/platform/sec"
	"github.com/sablebot/sable/internal/tag"
	"github.com/sablebot/sable/pkg/permissions"
)

// fakeChecker serves guild member permissions from a fixed map keyed by
// (guildID, userID). Unknown members have no permissions.
type fakeChecker struct {
	grants map[[2]int64]permissions.Set
}

func (checker *fakeChecker) MemberPermissions(_ context.Context, guildID, userID int64) (permissions.Set, error) {
	return checker.grants[[2]int64{guildID, userID}], nil
}

const (
	adminUserID  int64 = 100
	memberUserID int64 = 200
	testGuildID  int64 = 42
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	service, _, _ := newService(t)
	checker := &fakeChecker{grants: map[[2]int64]permissions.Set{
		{testGuildID, adminUserID}:  permissions.Administrator,
		{testGuildID, memberUserID}: permissions.ManageMessages,
	}}

	router := chi.NewRouter()
	router.Mount("/guilds", tag.NewHandler(service, checker).Routes())
	return router
}

// do performs a request as the given caller (nil for anonymous) and returns
// the recorded response.
func do(router http.Handler, method, path, body string, callerID int64) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	request := httptest.NewRequest(method, path, reader)
	if callerID != 0 {
		request = request.WithContext(ctxutil.WithCaller(request.Context(), &sec.AuthClaims{UserID: callerID}))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

// TestHandler_Lifecycle walks a tag from creation to deletion: create, resolve
// by case-insensitive exact name, patch the content, delete, then observe the
// 404 on re-resolution.
func TestHandler_Lifecycle(t *testing.T) {
	router := newTestRouter(t)
	base := fmt.Sprintf("/guilds/%d/tags", testGuildID)

	// Create.
	response := do(router, http.MethodPost, base, `{"user":{"id":1},"name":"rule 1","content":"Be nice."}`, adminUserID)
	require.Equal(t, http.StatusOK, response.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &created))
	require.Positive(t, created.ID)

	// Resolve by exact name, different case.
	response = do(router, http.MethodGet, base+"?name=RULE%201", "", adminUserID)
	require.Equal(t, http.StatusOK, response.Code)

	var listed []tag.Tag
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, int64(1), listed[0].UserID)
	assert.Equal(t, "Be nice.", listed[0].Content)
	// The guild id is not part of the list wire format.
	assert.NotContains(t, response.Body.String(), "guild_id")

	// Patch the content only.
	response = do(router, http.MethodPatch, fmt.Sprintf("%s/%d", base, created.ID), `{"content":"Be kind."}`, adminUserID)
	require.Equal(t, http.StatusOK, response.Code)

	var updated tag.Tag
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &updated))
	assert.Equal(t, "Be kind.", updated.Content)
	assert.Equal(t, "rule 1", updated.Name)

	// Delete.
	response = do(router, http.MethodDelete, fmt.Sprintf("%s/%d", base, created.ID), "", adminUserID)
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{}`, response.Body.String())

	// Gone.
	response = do(router, http.MethodGet, base+"?name=rule%201", "", adminUserID)
	require.Equal(t, http.StatusNotFound, response.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, response).Code)
}

func TestHandler_CreateDuplicate(t *testing.T) {
	router := newTestRouter(t)
	base := fmt.Sprintf("/guilds/%d/tags", testGuildID)

	response := do(router, http.MethodPost, base, `{"user":{"id":1},"name":"rule 1","content":"a"}`, adminUserID)
	require.Equal(t, http.StatusOK, response.Code)

	response = do(router, http.MethodPost, base, `{"user":{"id":2},"name":"Rule 1","content":"b"}`, adminUserID)
	require.Equal(t, http.StatusConflict, response.Code)

	envelope := decodeError(t, response)
	assert.Equal(t, "CONFLICT", envelope.Code)
	assert.Equal(t, "Duplicate tag name provided.", envelope.Error)
}

func TestHandler_Anonymous(t *testing.T) {
	router := newTestRouter(t)

	response := do(router, http.MethodGet, fmt.Sprintf("/guilds/%d/tags", testGuildID), "", 0)

	require.Equal(t, http.StatusUnauthorized, response.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, response).Code)
}

// A caller who can moderate messages but does not administrate the guild is
// still rejected by the API; moderator rights only matter to bot-side checks.
func TestHandler_NonAdministrator(t *testing.T) {
	router := newTestRouter(t)

	response := do(router, http.MethodPost, fmt.Sprintf("/guilds/%d/tags", testGuildID),
		`{"user":{"id":1},"name":"rule 1","content":"a"}`, memberUserID)

	require.Equal(t, http.StatusForbidden, response.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, response).Code)
}

func TestHandler_AdminOfOtherGuild(t *testing.T) {
	router := newTestRouter(t)

	// Administrator of guild 42, but the request targets guild 43.
	response := do(router, http.MethodGet, "/guilds/43/tags", "", adminUserID)

	require.Equal(t, http.StatusForbidden, response.Code)
}

func TestHandler_MutuallyExclusiveFilters(t *testing.T) {
	router := newTestRouter(t)

	response := do(router, http.MethodGet,
		fmt.Sprintf("/guilds/%d/tags?name=a&query=b", testGuildID), "", adminUserID)

	require.Equal(t, http.StatusBadRequest, response.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, response).Code)
}

func TestHandler_InvalidPathParams(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"guild_id", http.MethodGet, "/guilds/abc/tags"},
		{"tag_id", http.MethodDelete, fmt.Sprintf("/guilds/%d/tags/abc", testGuildID)},
		{"user_id", http.MethodGet, fmt.Sprintf("/guilds/%d/tags/members/abc", testGuildID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := do(router, tt.method, tt.path, "", adminUserID)

			require.Equal(t, http.StatusBadRequest, response.Code)
			assert.Equal(t, "VALIDATION_ERROR", decodeError(t, response).Code)
		})
	}
}

func TestHandler_MalformedBody(t *testing.T) {
	router := newTestRouter(t)

	response := do(router, http.MethodPost, fmt.Sprintf("/guilds/%d/tags", testGuildID),
		`{"user":`, adminUserID)

	require.Equal(t, http.StatusBadRequest, response.Code)
	assert.Equal(t, "Invalid JSON payload", decodeError(t, response).Error)
}

func TestHandler_MemberTags(t *testing.T) {
	router := newTestRouter(t)
	base := fmt.Sprintf("/guilds/%d/tags", testGuildID)

	response := do(router, http.MethodPost, base, `{"user":{"id":1},"name":"mine","content":"a"}`, adminUserID)
	require.Equal(t, http.StatusOK, response.Code)
	response = do(router, http.MethodPost, base, `{"user":{"id":2},"name":"theirs","content":"b"}`, adminUserID)
	require.Equal(t, http.StatusOK, response.Code)

	response = do(router, http.MethodGet, base+"/members/1", "", adminUserID)
	require.Equal(t, http.StatusOK, response.Code)

	var listed []tag.Tag
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "mine", listed[0].Name)

	// A member with no tags is a 404, not an empty list.
	response = do(router, http.MethodGet, base+"/members/999", "", adminUserID)
	require.Equal(t, http.StatusNotFound, response.Code)
}

func TestHandler_UpdateRequiresAField(t *testing.T) {
	router := newTestRouter(t)

	response := do(router, http.MethodPatch,
		fmt.Sprintf("/guilds/%d/tags/1", testGuildID), `{}`, adminUserID)

	require.Equal(t, http.StatusBadRequest, response.Code)
	assert.Contains(t, decodeError(t, response).Error, "at least one")
}
