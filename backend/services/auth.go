package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quizlearn/backend/apperr"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/utils"
)

const invalidCredentials = "invalid credentials"

type AuthService struct {
	users      *repos.UserRepo
	log        *utils.Logger
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAuthService(users *repos.UserRepo, log *utils.Logger, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		log:        log.With("service", "AuthService"),
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates a user. The returned user never carries the password hash.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	fields := map[string]string{}
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if name == "" {
		fields["name"] = "name is required"
	}
	if len(fields) > 0 {
		return nil, apperr.ValidationFields(fields)
	}

	if _, err := s.users.GetByEmail(ctx, nil, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash), Name: name}
	if err := s.users.Create(ctx, nil, user); err != nil {
		// A concurrent registration can still win the unique index.
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID)
	return s.withRoles(ctx, user)
}

// Login never tells a missing account apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", apperr.Validation("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, "", apperr.Authentication(invalidCredentials)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Authentication(invalidCredentials)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	user, err = s.withRoles(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) IssueToken(userID string) (string, error) {
	token, err := utils.GenerateJWTToken(userID, s.secret, s.tokenTTL)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

// Verify resolves a bearer token to its user.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	userID, err := utils.ExtractUserIDFromToken(token, s.secret)
	if err != nil {
		if errors.Is(err, utils.ErrMissingToken) {
			return nil, apperr.Authentication("missing authorization token")
		}
		return nil, apperr.Authentication("invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Authentication("invalid or expired token")
		}
		return nil, err
	}
	return s.withRoles(ctx, user)
}

func (s *AuthService) withRoles(ctx context.Context, user *models.User) (*models.User, error) {
	granted, err := s.users.Roles(ctx, nil, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = mergeRoles(granted)
	user.PasswordHash = ""
	return user, nil
}

func mergeRoles(granted []string) []string {
	roles := []string{models.RoleUser}
	for _, r := range granted {
		if r != models.RoleUser {
			roles = append(roles, r)
		}
	}
	return roles
}
