package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dtroode/contactbook-server/internal/api/http/response"
	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

// MaxAvatarSize is the largest accepted avatar upload.
const MaxAvatarSize = 5 << 20

// UserService defines operations on the current user's profile.
type UserService interface {
	Me(ctx context.Context, user model.User) model.Profile
	UpdateAvatar(ctx context.Context, user model.User, file io.Reader, size int64, contentType string) (model.Profile, error)
}

// User handles the /api/users endpoints.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{userService: userService, contextManager: contextManager, logger: logger}
}

func (h *User) currentUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		handleError(w, apierror.NewErrNotAuthenticated(), h.logger)
	}
	return user, ok
}

func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	response.JSON(w, http.StatusOK, h.userService.Me(r.Context(), user))
}

// UpdateAvatar stores the multipart "file" field as the caller's avatar.
func (h *User) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxAvatarSize+1<<10)
	if err := r.ParseMultipartForm(MaxAvatarSize); err != nil {
		handleError(w, apierror.NewErrValidation("invalid multipart body"), h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, apierror.NewErrValidation("file: cannot be blank."), h.logger)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		handleError(w, apierror.NewErrValidation("file: must be an image."), h.logger)
		return
	}

	profile, err := h.userService.UpdateAvatar(r.Context(), user, file, header.Size, contentType)
	if err != nil {
		h.logger.Error("User handler: failed to update avatar",
			"user_id", user.ID,
			"error", err.Error())
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, profile)
}

func (h *User) Public(w http.ResponseWriter, _ *http.Request) {
	response.Message(w, "Public!")
}

func (h *User) Admin(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	response.Message(w, fmt.Sprintf("Greetings, %s! This is admin route", user.Username))
}
