package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/linkmark/backend/internal/auth/service"
	commonerrors "github.com/linkmark/backend/internal/common/errors"
	commonhttp "github.com/linkmark/backend/internal/common/http"
	"github.com/linkmark/backend/internal/common/logger"
	"github.com/linkmark/backend/internal/observability/metrics"
	userdomain "github.com/linkmark/backend/internal/user/domain"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  userdomain.Public `json:"user"`
}

type Handler struct {
	auth     *service.AuthService
	validate *validator.Validate
	timeout  timeoutFunc
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
}

type timeoutFunc func(ctx context.Context) (context.Context, context.CancelFunc)

func NewHandler(auth *service.AuthService, cfg HandlerConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:     auth,
		validate: validator.New(),
		timeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, cfg.RequestTimeout)
		},
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrValidationFailed.WithCause(err))
		return
	}

	ctx, cancel := h.timeout(r.Context())
	defer cancel()

	result, err := h.auth.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrValidationFailed.WithCause(err))
		return
	}

	ctx, cancel := h.timeout(r.Context())
	defer cancel()

	user, err := h.auth.ValidateUser(ctx, req.Email, req.Password)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	if user == nil {
		metrics.LoginFailuresTotal.Inc()
		h.errors.HandleError(w, r, commonerrors.ErrInvalidCredentials)
		return
	}

	result, err := h.auth.Login(ctx, *user)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

type HandlerConfig struct {
	RequestTimeout time.Duration
}
