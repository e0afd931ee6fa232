package auth

import (
	"errors"
	"net/http"

	"github.com/user/courseboard-go/apperror"
)

// RequireUser guards a route group. It resolves the request's session to a
// full account and places it in the request context; anonymous requests are
// rejected with 401 before reaching the handler.
func RequireUser(bridge *SessionBridge) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := bridge.CurrentUser(r)
			if err != nil {
				if errors.Is(err, ErrNoSession) || apperror.IsNotFound(err) {
					WriteError(w, r, apperror.NewAuthError("authentication required", nil))
					return
				}
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}
