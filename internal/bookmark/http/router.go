package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/linkmark/backend/internal/bookmark/domain"
	"github.com/linkmark/backend/internal/bookmark/service"
	commonerrors "github.com/linkmark/backend/internal/common/errors"
	commonhttp "github.com/linkmark/backend/internal/common/http"
	"github.com/linkmark/backend/internal/common/jwtverify"
	"github.com/linkmark/backend/internal/common/logger"
)

type createRequest struct {
	Title       string   `json:"title" validate:"required,max=512"`
	URL         string   `json:"url" validate:"required,url,max=2048"`
	Description string   `json:"description" validate:"max=4096"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=128"`
}

type updateRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=512"`
	URL         *string   `json:"url" validate:"omitempty,url,max=2048"`
	Description *string   `json:"description" validate:"omitempty,max=4096"`
	Tags        *[]string `json:"tags"`
}

type Handler struct {
	bookmarks *service.BookmarkService
	validate  *validator.Validate
	timeout   time.Duration
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
}

func NewHandler(bookmarks *service.BookmarkService, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		bookmarks: bookmarks,
		validate:  validator.New(),
		timeout:   timeout,
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookmarks", h.collection)
	mux.HandleFunc("/api/bookmarks/tags", h.tags)
	mux.HandleFunc("/api/bookmarks/", h.byID)
	return mux
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("bookmark create failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrValidationFailed.WithCause(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := h.bookmarks.Create(ctx, caller.ID, service.CreateInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}

	q := r.URL.Query()
	query := service.Query{
		Search: q.Get("search"),
		Tags:   q["tags"],
		Page:   positiveInt(q.Get("page")),
		Limit:  positiveInt(q.Get("limit")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := h.bookmarks.FindAll(ctx, caller.ID, query)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) tags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	caller, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tags, err := h.bookmarks.GetAllTags(ctx, caller.ID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

func (h *Handler) byID(w http.ResponseWriter, r *http.Request) {
	caller, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/bookmarks/")
	if id == "" || strings.Contains(id, "/") {
		h.errors.HandleError(w, r, commonerrors.ErrBookmarkNotFound)
		return
	}
	// Identifiers are UUIDs; anything else cannot match a row.
	if err := commonhttp.ValidateUUID(id); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrBookmarkNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		view, err := h.bookmarks.FindOne(ctx, domain.ID(id), caller.ID)
		if err != nil {
			h.errors.HandleError(w, r, err)
			return
		}
		commonhttp.WriteJSON(w, http.StatusOK, view)
	case http.MethodPatch:
		h.update(ctx, w, r, domain.ID(id), caller.ID)
	case http.MethodDelete:
		view, err := h.bookmarks.Remove(ctx, domain.ID(id), caller.ID)
		if err != nil {
			h.errors.HandleError(w, r, err)
			return
		}
		commonhttp.WriteJSON(w, http.StatusOK, view)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) update(ctx context.Context, w http.ResponseWriter, r *http.Request, id domain.ID, ownerID string) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("bookmark update failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrValidationFailed.WithCause(err))
		return
	}

	view, err := h.bookmarks.Update(ctx, id, ownerID, service.UpdateInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, view)
}

// positiveInt parses a positive integer query value, returning zero for
// anything else so the caller falls back to its default.
func positiveInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n
}
