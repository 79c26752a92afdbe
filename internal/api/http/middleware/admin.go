package middleware

import (
	"net/http"

	"github.com/dtroode/contactbook-server/internal/api/http/response"
	"github.com/dtroode/contactbook-server/internal/apierror"
	"github.com/dtroode/contactbook-server/internal/logger"
	"github.com/dtroode/contactbook-server/internal/model"
	"github.com/dtroode/contactbook-server/internal/token"
)

// RequireAdmin lets through only users holding the admin role. It must run
// after Authenticate.
type RequireAdmin struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewRequireAdmin(contextManager model.ContextManager, logger *logger.Logger) *RequireAdmin {
	return &RequireAdmin{contextManager: contextManager, logger: logger}
}

func (m *RequireAdmin) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.contextManager.GetUserFromContext(r.Context())
		if !ok {
			response.Error(w, apierror.NewErrNotAuthenticated(), m.logger)
			return
		}

		if _, err := token.RequireAdmin(user); err != nil {
			m.logger.Info("RequireAdmin middleware: access denied",
				"user_id", user.ID,
				"path", r.URL.Path)
			response.Error(w, apierror.NewErrForbidden(), m.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}
