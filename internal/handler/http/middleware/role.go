package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
)

// RequirePermission rejects callers whose role lacks perm.
func RequirePermission(perm user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasPermission(id.Role, perm) {
				slog.Warn("Permission denied",
					"employee_id", id.EmployeeID, "role", id.Role, "permission", perm, "path", r.URL.Path)
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
