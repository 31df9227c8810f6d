package http

import (
	"context"
	"net/http"
	"time"

	commonhttp "github.com/linkmark/backend/internal/common/http"
	"github.com/linkmark/backend/internal/common/jwtverify"
	"github.com/linkmark/backend/internal/common/logger"
	"github.com/linkmark/backend/internal/user/domain"
	"github.com/linkmark/backend/internal/user/service"
)

type Handler struct {
	users   *service.UserService
	timeout time.Duration
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
}

func NewHandler(users *service.UserService, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		users:   users,
		timeout: timeout,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/profile", h.profile)
	return mux
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
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

	profile, err := h.users.GetProfile(ctx, domain.ID(caller.ID))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, profile)
}
