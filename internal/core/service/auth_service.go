package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/sistemabancario/banking-system/internal/core/domain"
	"github.com/sistemabancario/banking-system/internal/core/ports"
)

// AuthService implements registration, the guarded login, and credential and
// profile maintenance. Passwords are compared in plaintext against the stored
// record; the session token it issues only covers the HTTP surface.
type AuthService struct {
	store     ports.UserStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(store ports.UserStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a user keyed by document number, with a zero-balance
// savings and checking account. Fails when the document is already taken.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Document == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if _, exists := users[input.Document]; exists {
		return nil, domain.ErrUserExists
	}

	user := domain.NewUser(input.Name, input.Document, input.Phone, input.Email, input.Password)
	users[user.ID] = user
	if err := s.store.Save(ctx, users); err != nil {
		return nil, fmt.Errorf("register: save: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user.Clone(), nil
}

// Login runs the lockout state machine and, on success, returns a signed
// session token. The advanced attempt counter (or the lock) is persisted even
// when the attempt fails.
func (s *AuthService) Login(ctx context.Context, document, password string) (string, *domain.User, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	user, ok := users[document]
	if !ok {
		return "", nil, domain.ErrUserNotFound
	}

	updated, authErr := user.Authenticate(password)
	users[document] = updated
	if err := s.store.Save(ctx, users); err != nil {
		return "", nil, fmt.Errorf("login: save: %w", err)
	}

	if authErr != nil {
		s.logger.Warn().Str("user_id", document).Int("failed_attempts", updated.FailedAttempts).
			Bool("locked", updated.Locked).Msg("login rejected")
		return "", nil, authErr
	}

	token, err := s.generateToken(updated)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	s.logger.Info().Str("user_id", document).Msg("login accepted")
	return token, updated.Clone(), nil
}

// ChangePassword replaces the stored password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	users, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	user, ok := users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}

	updated, err := user.ChangePassword(current, next)
	if err != nil {
		return err
	}
	users[userID] = updated
	if err := s.store.Save(ctx, users); err != nil {
		return fmt.Errorf("change password: save: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// UpdateProfile merges the changes into the persisted record. Fails when the
// user no longer exists in the table.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, changes ports.ProfileInput) (*domain.User, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	user, ok := users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	updated, err := user.ApplyProfile(domain.ProfileChanges{
		Name:  changes.Name,
		Phone: changes.Phone,
		Email: changes.Email,
	})
	if err != nil {
		return nil, err
	}
	users[userID] = updated
	if err := s.store.Save(ctx, users); err != nil {
		return nil, fmt.Errorf("update profile: save: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("profile updated")
	return updated.Clone(), nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"nombre":  user.Name,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
