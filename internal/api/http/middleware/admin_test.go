package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	httpctx "github.com/dtroode/contactbook-server/internal/api/http/context"
	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/dtroode/contactbook-server/internal/testutil"
)

func TestRequireAdmin_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
		wantDetail string
	}{
		{
			name:       "no user in context",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Not authenticated",
		},
		{
			name:       "regular user",
			user:       &model.User{ID: uuid.New(), Username: "bob", Role: model.RoleUser},
			wantStatus: http.StatusForbidden,
			wantDetail: "No access rights",
		},
		{
			name:       "admin",
			user:       &model.User{ID: uuid.New(), Username: "root", Role: model.RoleAdmin},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctxMgr := httpctx.NewManager()
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/users/admin", nil)
			if tt.user != nil {
				req = req.WithContext(ctxMgr.SetUserToContext(req.Context(), *tt.user))
			}
			rec := httptest.NewRecorder()

			NewRequireAdmin(ctxMgr, testutil.MakeNoopLogger()).Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, detail(t, rec))
			}
		})
	}
}
