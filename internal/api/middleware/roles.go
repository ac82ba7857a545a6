package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

const msgForbidden = "доступ запрещен"

// RoleChecker интерфейс проверки ролей
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role domain.Role) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequireRole пропускает только пользователей с ролью role
// Должен стоять после Auth
func RequireRole(checker RoleChecker, role domain.Role, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			allowed, err := checker.HasRole(r.Context(), userID, role)
			if err != nil {
				logger.Error("RequireRole: failed to check role=%s for user=%s: %v", role, userID, err)
				handlers.RespondInternalError(w)
				return
			}

			if !allowed {
				logger.Warn("RequireRole: user=%s lacks role=%s for %s %s", userID, role, r.Method, r.URL.Path)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
