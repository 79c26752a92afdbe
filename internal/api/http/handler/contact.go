package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/contactbook-server/internal/api/http/response"
	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
)

// DefaultBirthdayWindow is used when the days query parameter is absent.
const DefaultBirthdayWindow = 7

// ContactService defines the contact book operations of a single user.
type ContactService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Contact, error)
	Get(ctx context.Context, userID, id uuid.UUID) (model.Contact, error)
	Create(ctx context.Context, userID uuid.UUID, params model.ContactParams) (model.Contact, error)
	Update(ctx context.Context, userID, id uuid.UUID, params model.ContactParams) (model.Contact, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (model.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID uuid.UUID, days int) ([]model.Contact, error)
}

// Contact handles the /api/contacts endpoints.
type Contact struct {
	contactService ContactService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewContact(contactService ContactService, contextManager model.ContextManager, logger *logger.Logger) *Contact {
	return &Contact{contactService: contactService, contextManager: contextManager, logger: logger}
}

func (h *Contact) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		handleError(w, apierror.NewErrNotAuthenticated(), h.logger)
		return uuid.Nil, false
	}
	return user.ID, true
}

func (h *Contact) contactID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, apierror.NewErrValidation("id: must be a valid UUID."), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Contact) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	contacts, err := h.contactService.List(r.Context(), userID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, newContactResponses(contacts))
}

// Birthdays lists contacts with a birthday in the next days days (7 by default).
func (h *Contact) Birthdays(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	days := DefaultBirthdayWindow
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 366 {
			handleError(w, apierror.NewErrValidation("days: must be between 0 and 366."), h.logger)
			return
		}
		days = n
	}

	contacts, err := h.contactService.UpcomingBirthdays(r.Context(), userID, days)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, newContactResponses(contacts))
}

func (h *Contact) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, newContactResponse(contact))
}

func (h *Contact) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req contactRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	contact, err := h.contactService.Create(r.Context(), userID, req.params())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusCreated, newContactResponse(contact))
}

func (h *Contact) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	var req contactRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	contact, err := h.contactService.Update(r.Context(), userID, id, req.params())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, newContactResponse(contact))
}

// Delete removes a contact and echoes it back.
func (h *Contact) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}

	contact, err := h.contactService.Delete(r.Context(), userID, id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	response.JSON(w, http.StatusOK, newContactResponse(contact))
}
