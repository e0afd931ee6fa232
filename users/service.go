package users

import (
	"context"

	"github.com/user/courseboard-go/auth"
)

// UserService assembles profile views on top of the account service.
type UserService struct {
	accounts *auth.AccountService
}

// NewUserService creates a new UserService.
func NewUserService(accounts *auth.AccountService) *UserService {
	return &UserService{accounts: accounts}
}

// GetProfile returns the profile for the given account ID.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*ProfileResponse, error) {
	user, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}, nil
}
