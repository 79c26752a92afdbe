package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/contactbook-server/internal/api/http/response"
	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

// MessageLoggedOut is returned after a successful logout.
const MessageLoggedOut = "Successfully logged out"

// AuthService defines account and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, username, password string) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, user model.User) error
	RequestEmail(ctx context.Context, email string) (string, error)
	ConfirmEmail(ctx context.Context, token string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
}

// Auth handles the /api/auth endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerResponse struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Register creates an account and answers 201.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	user, err := h.authService.Register(r.Context(), model.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Info("Auth handler: registration rejected",
			"username", req.Username,
			"error", err.Error())
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusCreated, registerResponse{
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// Login reads form-encoded credentials and returns a token pair.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handleError(w, apierror.NewErrValidation("invalid form body"), h.logger)
		return
	}

	req := loginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := req.Validate(); err != nil {
		handleError(w, apierror.NewErrValidation(err.Error()), h.logger)
		return
	}

	pair, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login rejected",
			"username", req.Username,
			"error", err.Error())
		handleError(w, err, h.logger)
		return
	}

	response.NoStore(w)
	response.JSON(w, http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new access token.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Info("Auth handler: refresh rejected",
			"error", err.Error())
		handleError(w, err, h.logger)
		return
	}

	response.NoStore(w)
	response.JSON(w, http.StatusOK, pair)
}

// Logout revokes the stored refresh token of the caller.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		handleError(w, apierror.NewErrNotAuthenticated(), h.logger)
		return
	}

	if err := h.authService.Logout(r.Context(), user); err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.Message(w, MessageLoggedOut)
}

func (h *Auth) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	msg, err := h.authService.RequestEmail(r.Context(), req.Email)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.Message(w, msg)
}

func (h *Auth) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	msg, err := h.authService.ConfirmEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.logger.Info("Auth handler: email confirmation rejected",
			"error", err.Error())
		handleError(w, err, h.logger)
		return
	}

	response.Message(w, msg)
}

func (h *Auth) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	msg, err := h.authService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.Message(w, msg)
}

func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	msg, err := h.authService.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: password reset rejected",
			"error", err.Error())
		handleError(w, err, h.logger)
		return
	}

	response.Message(w, msg)
}
