package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/antcal/internal/persistence"
)

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService handles registration, login, and logout over the document store.
type AuthService struct {
	store          persistence.Store
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	idGenerator    func() string
	logger         *slog.Logger
}

// NewAuthService wires dependencies for the auth service.
func NewAuthService(store persistence.Store, idGenerator func() string, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &AuthService{
		store:          store,
		hashPassword:   HashPassword,
		verifyPassword: VerifyPassword,
		idGenerator:    idGenerator,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Register validates the payload, rejects duplicate emails, and appends a new
// user record. The email comparison is an exact, case-sensitive match.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (user persistence.User, err error) {
	if s == nil || s.store == nil {
		return persistence.User{}, fmt.Errorf("auth service not configured")
	}

	logger := s.loggerWith(ctx, "Register", "email", params.Email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user registered")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"email":    params.Email,
		"password": params.Password,
		"username": params.Username,
		"phone":    params.Phone,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = s.hashPassword(params.Password)
	if err != nil {
		return
	}

	user = persistence.User{
		ID:       s.idGenerator(),
		Email:    params.Email,
		Password: hash,
		Username: params.Username,
		Phone:    params.Phone,
	}

	err = s.store.Update(ctx, func(state *persistence.State) error {
		for _, existing := range state.Users {
			if existing.Email == params.Email {
				return ErrEmailTaken
			}
		}
		state.Users = append(state.Users, user)
		return nil
	})
	if err != nil {
		user = persistence.User{}
	}
	return
}

// Login checks the credentials and returns the reduced user projection.
// Unknown emails yield ErrUnknownEmail; a wrong password yields
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (profile UserProfile, err error) {
	if s == nil || s.store == nil {
		return UserProfile{}, fmt.Errorf("auth service not configured")
	}

	logger := s.loggerWith(ctx, "Login", "email", params.Email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", profile.ID).InfoContext(ctx, "login succeeded")
	}()

	vErr := &ValidationError{}
	vErr.requireFields(map[string]string{
		"email":    params.Email,
		"password": params.Password,
	})
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var state persistence.State
	state, err = s.store.Load(ctx)
	if err != nil {
		return
	}

	for _, user := range state.Users {
		if user.Email != params.Email {
			continue
		}
		if err = s.verifyPassword(user.Password, params.Password); err != nil {
			return
		}
		profile = UserProfile{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			Phone:    user.Phone,
		}
		return
	}

	err = ErrUnknownEmail
	return
}

// Logout acknowledges the request. There is no server-side session to
// invalidate in this design.
func (s *AuthService) Logout(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("auth service not configured")
	}
	s.loggerWith(ctx, "Logout").InfoContext(ctx, "logout acknowledged")
	return nil
}
