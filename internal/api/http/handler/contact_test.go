package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/contactbook-server/internal/api/http/context"
	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/mocks"
	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/dtroode/contactbook-server/internal/testutil"
)

const validContactBody = `{
	"first_name": "Taras",
	"second_name": "Shevchenko",
	"email": "taras@example.com",
	"phone_number": "+380501234567",
	"birthday": "1990-03-09"
}`

type contactFixture struct {
	h      *Contact
	svc    *mocks.ContactService
	ctxMgr *httpctx.Manager
	user   model.User
}

func newContactFixture(t *testing.T) *contactFixture {
	t.Helper()

	svc := mocks.NewContactService(t)
	ctxMgr := httpctx.NewManager()
	return &contactFixture{
		h:      NewContact(svc, ctxMgr, testutil.MakeNoopLogger()),
		svc:    svc,
		ctxMgr: ctxMgr,
		user:   model.User{ID: uuid.New(), Username: "alice"},
	}
}

func (f *contactFixture) authed(req *http.Request) *http.Request {
	return req.WithContext(f.ctxMgr.SetUserToContext(req.Context(), f.user))
}

func sampleContact(userID uuid.UUID) model.Contact {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.Contact{
		ID:          uuid.New(),
		UserID:      userID,
		FirstName:   "Taras",
		SecondName:  "Shevchenko",
		Email:       "taras@example.com",
		PhoneNumber: "+380501234567",
		Birthday:    time.Date(1990, 3, 9, 0, 0, 0, 0, time.UTC),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestContact_Create(t *testing.T) {
	t.Parallel()

	f := newContactFixture(t)
	created := sampleContact(f.user.ID)

	f.svc.On("Create", mock.Anything, f.user.ID, model.ContactParams{
		FirstName:   "Taras",
		SecondName:  "Shevchenko",
		Email:       "taras@example.com",
		PhoneNumber: "+380501234567",
		Birthday:    time.Date(1990, 3, 9, 0, 0, 0, 0, time.UTC),
	}).Return(created, nil)

	rec := httptest.NewRecorder()
	f.h.Create(rec, f.authed(jsonRequest(http.MethodPost, "/api/contacts", validContactBody)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got contactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID.String(), got.ID)
	assert.Equal(t, "1990-03-09", got.Birthday)
	assert.Nil(t, got.AdditionalData)
}

func TestContact_Create_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "bad phone",
			body:      `{"first_name":"a","second_name":"b","email":"a@b.co","phone_number":"12","birthday":"1990-01-01"}`,
			wantField: "phone_number",
		},
		{
			name:      "bad birthday",
			body:      `{"first_name":"a","second_name":"b","email":"a@b.co","phone_number":"+380501234567","birthday":"01/01/1990"}`,
			wantField: "birthday",
		},
		{
			name:      "first name too long",
			body:      `{"first_name":"abcdefghijabcdefghijabcdefghijK","second_name":"b","email":"a@b.co","phone_number":"+380501234567","birthday":"1990-01-01"}`,
			wantField: "first_name",
		},
		{
			name:      "missing email",
			body:      `{"first_name":"a","second_name":"b","phone_number":"+380501234567","birthday":"1990-01-01"}`,
			wantField: "email",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newContactFixture(t)
			rec := httptest.NewRecorder()
			f.h.Create(rec, f.authed(jsonRequest(http.MethodPost, "/api/contacts", tt.body)))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, detail(t, rec), tt.wantField)
		})
	}
}

func TestContact_Get(t *testing.T) {
	t.Parallel()

	f := newContactFixture(t)
	c := sampleContact(f.user.ID)
	f.svc.On("Get", mock.Anything, f.user.ID, c.ID).Return(c, nil)

	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", c.ID.String())
	f.h.Get(rec, f.authed(req))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), c.ID.String())
}

func TestContact_Get_NotFound(t *testing.T) {
	t.Parallel()

	f := newContactFixture(t)
	id := uuid.New()
	f.svc.On("Get", mock.Anything, f.user.ID, id).Return(model.Contact{}, apierror.NewErrContactNotFound())

	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
	f.h.Get(rec, f.authed(req))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Contact not found", detail(t, rec))
}

func TestContact_Get_BadID(t *testing.T) {
	t.Parallel()

	f := newContactFixture(t)
	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "42")
	f.h.Get(rec, f.authed(req))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestContact_List(t *testing.T) {
	t.Parallel()

	f := newContactFixture(t)
	f.svc.On("List", mock.Anything, f.user.ID).Return([]model.Contact{}, nil)

	rec := httptest.NewRecorder()
	f.h.List(rec, f.authed(httptest.NewRequest(http.MethodGet, "/api/contacts", nil)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestContact_Update(t *testing.T) {
	t.Parallel()

	f := newContactFixture(t)
	c := sampleContact(f.user.ID)
	f.svc.On("Update", mock.Anything, f.user.ID, c.ID, mock.AnythingOfType("model.ContactParams")).Return(c, nil)

	rec := httptest.NewRecorder()
	req := withURLParam(jsonRequest(http.MethodPut, "/", validContactBody), "id", c.ID.String())
	f.h.Update(rec, f.authed(req))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContact_Delete(t *testing.T) {
	t.Parallel()

	f := newContactFixture(t)
	c := sampleContact(f.user.ID)
	f.svc.On("Delete", mock.Anything, f.user.ID, c.ID).Return(c, nil)

	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", c.ID.String())
	f.h.Delete(rec, f.authed(req))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), c.ID.String())
}

func TestContact_Birthdays(t *testing.T) {
	t.Parallel()

	t.Run("default window", func(t *testing.T) {
		t.Parallel()

		f := newContactFixture(t)
		f.svc.On("UpcomingBirthdays", mock.Anything, f.user.ID, DefaultBirthdayWindow).Return([]model.Contact{sampleContact(f.user.ID)}, nil)

		rec := httptest.NewRecorder()
		f.h.Birthdays(rec, f.authed(httptest.NewRequest(http.MethodGet, "/api/contacts/birthdays", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("explicit window", func(t *testing.T) {
		t.Parallel()

		f := newContactFixture(t)
		f.svc.On("UpcomingBirthdays", mock.Anything, f.user.ID, 30).Return([]model.Contact{}, nil)

		rec := httptest.NewRecorder()
		f.h.Birthdays(rec, f.authed(httptest.NewRequest(http.MethodGet, "/api/contacts/birthdays?days=30", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad window", func(t *testing.T) {
		t.Parallel()

		f := newContactFixture(t)
		rec := httptest.NewRecorder()
		f.h.Birthdays(rec, f.authed(httptest.NewRequest(http.MethodGet, "/api/contacts/birthdays?days=-1", nil)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
