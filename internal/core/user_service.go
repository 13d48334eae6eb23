package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Chaudhary-CS/Nexus/internal/auth"
	"github.com/Chaudhary-CS/Nexus/internal/logging"
	"github.com/Chaudhary-CS/Nexus/internal/store"
	"go.uber.org/zap"
)

type UserService struct {
	dbStore *store.SQLiteStore
	tokens  *auth.TokenManager
}

func NewUserService(db *store.SQLiteStore, tokens *auth.TokenManager) *UserService {
	return &UserService{dbStore: db, tokens: tokens}
}

// Session is an authenticated user together with a freshly issued token.
type Session struct {
	User  *store.User
	Token string
}

func (s *UserService) Register(ctx context.Context, email, name, password string) (*Session, error) {
	email = auth.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if email == "" || name == "" || password == "" {
		return nil, invalid("", "All fields are required")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, invalid("password", fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength))
	}
	if !auth.ValidEmail(email) {
		return nil, invalid("email", "Invalid email format")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{Email: email, Name: name, PasswordHash: hash, IsActive: true}
	if err := s.dbStore.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, invalid("email", "An account with this email already exists")
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

// Login returns ErrUnauthorized for an unknown email, a wrong password and
// an inactive account alike.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = auth.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("", "Email and password are required")
	}

	user, err := s.dbStore.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return s.issue(user)
}

// Authenticate resolves a bearer token to an active user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*store.User, error) {
	userID, err := s.tokens.ValidateJWT(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.dbStore.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *UserService) issue(user *store.User) (*Session, error) {
	token, err := s.tokens.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
