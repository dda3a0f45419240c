package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashukla/ridepool/internal/hash"
	"github.com/ashukla/ridepool/internal/logging"
	"github.com/ashukla/ridepool/internal/models"
	"github.com/ashukla/ridepool/internal/mykafka"
	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/token"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *token.Service
	Revoked  *token.RevocationRegistry
	Producer *mykafka.Producer
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", topic, "error", err)
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", in.Username)

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         role.String(),
		Age:          in.Age,
		Phone:        in.Phone,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			l.Warn("register failed", "reason", "user exists")
		} else {
			l.Error("register failed", "error", err)
		}
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login validates the credentials and issues a token. A missing user and
// a wrong password are distinguished here and in the logs only; callers
// must present both to the client as the same failure.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login failed", "reason", "user not found")
			return "", nil, repo.ErrUserNotFound
		}
		l.Error("login failed", "error", err)
		return "", nil, err
	}

	if !user.Active {
		l.Warn("login failed", "reason", "account inactive")
		return "", nil, ErrInvalidCredentials
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "password mismatch")
		return "", nil, ErrInvalidCredentials
	}

	role, err := models.ParseRole(user.Role)
	if err != nil {
		l.Error("login failed", "reason", "stored role invalid", "error", err)
		return "", nil, err
	}

	raw, err := s.Tokens.Issue(token.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     role,
	})
	if err != nil {
		l.Error("login failed", "reason", "cannot sign token", "error", err)
		return "", nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("login successful", "user_id", user.ID)
	return raw, user, nil
}

// Logout revokes the presented token for the rest of its lifetime.
// Tokens that do not verify produce ErrInvalidToken and no state change.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	exp, err := s.Tokens.ExpiresAt(raw)
	if err != nil {
		l.Warn("logout rejected", "error", err)
		return ErrInvalidToken
	}

	s.Revoked.Revoke(raw, exp)
	l.Info("token revoked", "expires_at", exp)
	return nil
}
