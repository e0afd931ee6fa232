package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/user/courseboard-go/apperror"
)

// Handlers exposes the account and session operations over HTTP.
type Handlers struct {
	accounts *AccountService
	bridge   *SessionBridge
}

// NewHandlers creates the auth HTTP handlers.
func NewHandlers(accounts *AccountService, bridge *SessionBridge) *Handlers {
	return &Handlers{accounts: accounts, bridge: bridge}
}

// HandleRegister creates a new account. Validation failures return 400 with
// one message per rejected field and leave the store untouched.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRegisterRequest(r)
		if err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}

		user, err := h.accounts.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, RegisterResponse{
			Message: "New user successfully added!",
			User:    user,
		})
	}
}

// HandleLogin authenticates the submitted credentials. Success establishes a
// session and redirects to the application root; a credential failure
// redirects back to the login page without detailing what was wrong.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLoginRequest(r)
		if err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}

		if _, err := h.bridge.Authenticate(w, r, req.Username, req.Password); err != nil {
			if apperror.IsAuthError(err) {
				// The underlying cause (unknown user vs wrong password) is
				// logged but never surfaced to the client.
				log.Printf("login denied for %q: %v", req.Username, err)
				http.Redirect(w, r, "/users/login", http.StatusSeeOther)
				return
			}
			WriteError(w, r, err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleLogout tears the session down and redirects to the login page. It is
// idempotent: a logout without an active session is still a redirect, not an
// error.
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.bridge.Logout(w, r); err != nil {
			WriteError(w, r, err)
			return
		}
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
	}
}

// decodeRegisterRequest accepts either a JSON body or an HTML form post.
func decodeRegisterRequest(r *http.Request) (*RegisterRequest, error) {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		isAdmin, _ := strconv.ParseBool(r.PostFormValue("isAdmin"))
		return &RegisterRequest{
			FirstName: r.PostFormValue("firstName"),
			LastName:  r.PostFormValue("lastName"),
			Email:     r.PostFormValue("email"),
			Username:  r.PostFormValue("username"),
			Password:  r.PostFormValue("password"),
			Confirm:   r.PostFormValue("confirm"),
			IsAdmin:   isAdmin,
		}, nil
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	defer r.Body.Close()
	return &req, nil
}

// decodeLoginRequest accepts either a JSON body or an HTML form post.
func decodeLoginRequest(r *http.Request) (*LoginRequest, error) {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &LoginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	defer r.Body.Close()
	return &req, nil
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

// writeJSON serializes data to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into the standard JSON error response.
// Unexpected store or hashing faults become a structured 500 instead of
// escaping the handler.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("error processing %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
