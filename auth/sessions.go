package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/user/courseboard-go/apperror"
	"github.com/user/courseboard-go/config"
)

const (
	// sessionName is the cookie holding the session artifact.
	sessionName = "courseboard_session"

	// Keys into the session value map. Only the minimal identity reference
	// lives there, never the user entity or its password hash.
	sessionKeyUserID    = "user_id"
	sessionKeyToken     = "token"
	sessionKeyExpiresAt = "expires_at"
)

// ErrNoSession is returned when a request carries no authenticated session.
var ErrNoSession = errors.New("no authenticated session")

// SessionBridge connects the HTTP session layer to the account service. It
// serializes an authenticated identity into the session cookie and resolves
// it back to a full account on later requests.
type SessionBridge struct {
	accounts *AccountService
	store    sessions.Store
	ttl      time.Duration
}

// NewSessionBridge creates a SessionBridge with a cookie-backed store.
func NewSessionBridge(accounts *AccountService, cfg *config.SessionConfig) *SessionBridge {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionBridge{accounts: accounts, store: store, ttl: cfg.TTL}
}

// Authenticate verifies the submitted credentials and, on success, writes the
// serialized identity to the session. Credential failures come back as an
// AuthError with a merged message that does not reveal whether the username
// or the password was wrong.
func (b *SessionBridge) Authenticate(w http.ResponseWriter, r *http.Request, username, password string) (*User, error) {
	user, err := b.accounts.VerifyCredentials(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrInvalidPassword) {
			return nil, apperror.NewAuthError("invalid credentials", err)
		}
		return nil, err
	}

	session, _ := b.store.Get(r, sessionName)
	session.Values[sessionKeyUserID] = b.SerializeIdentity(user)
	session.Values[sessionKeyToken] = uuid.NewString()
	// Expiry is recorded on the session artifact but no transition is driven
	// by it yet; the cookie's own MaxAge governs its lifetime.
	session.Values[sessionKeyExpiresAt] = time.Now().Add(b.ttl).Unix()
	if err := session.Save(r, w); err != nil {
		return nil, apperror.NewInternalError("failed to save session", err)
	}
	return user, nil
}

// SerializeIdentity reduces a user to the reference stored on the session
// artifact: the identifier, nothing more.
func (b *SessionBridge) SerializeIdentity(user *User) int {
	return user.ID
}

// DeserializeIdentity resolves a stored reference back to the full account.
func (b *SessionBridge) DeserializeIdentity(r *http.Request, userID int) (*User, error) {
	return b.accounts.FindByID(r.Context(), userID)
}

// CurrentUser resolves the request's session to its account. It returns
// ErrNoSession for anonymous requests; lookup failures from the account
// service pass through unchanged.
func (b *SessionBridge) CurrentUser(r *http.Request) (*User, error) {
	session, err := b.store.Get(r, sessionName)
	if err != nil {
		// An undecodable cookie (e.g. after a secret rotation) is treated as
		// an anonymous request rather than an error.
		return nil, ErrNoSession
	}
	userID, ok := session.Values[sessionKeyUserID].(int)
	if !ok {
		return nil, ErrNoSession
	}
	return b.DeserializeIdentity(r, userID)
}

// Logout clears the session-to-user association. Logging out without an
// active session is a no-op.
func (b *SessionBridge) Logout(w http.ResponseWriter, r *http.Request) error {
	session, err := b.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	for key := range session.Values {
		delete(session.Values, key)
	}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return apperror.NewInternalError("failed to clear session", err)
	}
	return nil
}
