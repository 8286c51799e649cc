package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sablebot/sable/internal/guild"
	"github.com/sablebot/sable/internal/platform/apperr"
	requestutil "github.com/sablebot/sable/internal/platform/request"
	"github.com/sablebot/sable/internal/platform/respond"
)

// Guard authorizes a request against a guild before the handler body runs.
// Guards are evaluated in order; the first denial is returned and the handler
// never executes, so no store access happens for rejected callers.
type Guard func(request *http.Request, guildID int64) error

type Handler struct {
	service *Service
	guards  []Guard
}

// NewHandler wires the tag handlers with their guard chain: the caller must be
// authenticated and must hold administrative rights over the guild in the
// route. Every tag endpoint — create, search, update, delete — runs the same
// chain.
func NewHandler(service *Service, checker guild.Checker) *Handler {
	return &Handler{
		service: service,
		guards: []Guard{
			requireAuthenticated,
			requireGuildAdministrator(checker),
		},
	}
}

func requireAuthenticated(request *http.Request, _ int64) error {
	_, err := requestutil.RequiredCaller(request)
	return err
}

func requireGuildAdministrator(checker guild.Checker) Guard {
	return func(request *http.Request, guildID int64) error {
		claims, err := requestutil.RequiredCaller(request)
		if err != nil {
			return err
		}

		isAdmin, err := guild.HasAdministrator(request.Context(), checker, guildID, claims.UserID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return apperr.Forbidden("Administrator permission required")
		}

		return nil
	}
}

// authorize runs the guard chain for the guild scoped by the request.
func (handler *Handler) authorize(request *http.Request, guildID int64) error {
	for _, guard := range handler.guards {
		if err := guard(request, guildID); err != nil {
			return err
		}
	}
	return nil
}

// Routes returns the guild-scoped tag routes, to be mounted under /guilds.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/{guildID}/tags", func(r chi.Router) {
		r.Post("/", handler.createTag)
		r.Get("/", handler.listTags)
		r.Get("/members/{userID}", handler.memberTags)
		r.Patch("/{tagID}", handler.updateTag)
		r.Delete("/{tagID}", handler.deleteTag)
	})

	return router
}

// createTag handles POST /guilds/{guildID}/tags.
func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	guildID, err := requestutil.SnowflakeParam(request, "guildID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorize(request, guildID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := handler.service.Create(request.Context(), guildID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int64{"id": id})
}

// listTags handles GET /guilds/{guildID}/tags with the mutually exclusive
// ?name= (exact) and ?query= (substring) filters.
func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	guildID, err := requestutil.SnowflakeParam(request, "guildID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorize(request, guildID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := request.URL.Query()
	tags, err := handler.service.Search(request.Context(), guildID, params.Get("name"), params.Get("query"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

// memberTags handles GET /guilds/{guildID}/tags/members/{userID}.
func (handler *Handler) memberTags(writer http.ResponseWriter, request *http.Request) {
	guildID, err := requestutil.SnowflakeParam(request, "guildID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorize(request, guildID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ownerID, err := requestutil.SnowflakeParam(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.service.MemberTags(request.Context(), guildID, ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

// updateTag handles PATCH /guilds/{guildID}/tags/{tagID}.
func (handler *Handler) updateTag(writer http.ResponseWriter, request *http.Request) {
	guildID, err := requestutil.SnowflakeParam(request, "guildID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorize(request, guildID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tagID, err := requestutil.SnowflakeParam(request, "tagID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), guildID, tagID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// deleteTag handles DELETE /guilds/{guildID}/tags/{tagID}.
func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	guildID, err := requestutil.SnowflakeParam(request, "guildID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorize(request, guildID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tagID, err := requestutil.SnowflakeParam(request, "tagID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), guildID, tagID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Empty(writer)
}
