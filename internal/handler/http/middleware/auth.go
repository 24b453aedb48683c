package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Identity is the caller as described by a verified access token.
type Identity struct {
	UserID     string
	EmployeeID string
	Role       user.Role
}

// IdentityFromContext reads the verified claims placed by jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, user.ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return Identity{}, user.ErrEmployeeClaimMissing
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)

	return Identity{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       user.ParseRole(role),
	}, nil
}

// AuthRequired runs after jwtauth.Verifier. It admits only access tokens
// that name an employee, so handlers can rely on IdentityFromContext.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}
		if kind, _ := claims["type"].(string); kind != jwt.TokenTypeAccess {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}
		if _, err := IdentityFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
