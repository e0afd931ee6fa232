package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/courseboard-go/apperror"
)

// Credential verification outcomes. Handlers must not forward these messages
// to clients verbatim; the distinction stays internal so responses never
// reveal whether a username exists.
var (
	// ErrUnknownUser means no account matches the submitted username.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidPassword means the account exists but the password does not match.
	ErrInvalidPassword = errors.New("invalid password")
)

// AccountService owns user persistence and credential verification.
type AccountService struct {
	store      UserStore
	bcryptCost int
}

// NewAccountService creates an AccountService backed by the given store.
func NewAccountService(store UserStore, bcryptCost int) *AccountService {
	return &AccountService{store: store, bcryptCost: bcryptCost}
}

// Register validates the candidate fields, hashes the password, and persists
// the new account in a single write. Validation failures are returned before
// anything touches the store.
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          normalizeEmail(req.Email),
		Username:       req.Username,
		HashedPassword: string(hashed),
		IsAdmin:        req.IsAdmin,
	}
	return s.store.Create(ctx, user)
}

// FindByUsername looks an account up by username.
func (s *AccountService) FindByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.store.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user %q not found", username), nil)
		}
		return nil, err
	}
	return user, nil
}

// FindByID looks an account up by its identifier.
func (s *AccountService) FindByID(ctx context.Context, id int) (*User, error) {
	user, err := s.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
		}
		return nil, err
	}
	return user, nil
}

// VerifyCredentials resolves username and plaintext password to an account.
// It returns ErrUnknownUser when the username has no account and
// ErrInvalidPassword when the password does not match the stored hash.
func (s *AccountService) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// normalizeEmail stores emails in a consistent case.
func normalizeEmail(email string) string {
	return strings.ToLower(email)
}
