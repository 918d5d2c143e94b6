package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/types"
)

// UserService owns the account lifecycle behind the auth endpoints: every
// resume in the system belongs to a user it registered.
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(db DBClient, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
	}
}

// apiUser strips the password hash out of a stored user before it crosses
// the API boundary.
func apiUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:          dbUser.ID,
		Name:        dbUser.Name,
		Email:       dbUser.Email,
		Phone:       dbUser.Phone,
		PasswordSet: dbUser.PasswordSet,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
	}
}

// Register creates an account for a new resume owner. Email addresses are
// unique across accounts.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Two-step create: the row first, then the credential.
	userID, err := s.db.CreateUser(ctx, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return apiUser(dbUser), nil
}

// Login authenticates an account. Unknown email, wrong password and an
// account without a credential all yield the same error, so the response
// never reveals whether an email is registered.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	if !dbUser.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}

	return apiUser(dbUser), nil
}

// UpdatePassword replaces an account's password after verifying the current
// one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, dbUser.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.db.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
