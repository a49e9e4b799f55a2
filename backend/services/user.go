package services

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"quizlearn/backend/apperr"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/utils"
)

type UserService struct {
	users *repos.UserRepo
	log   *utils.Logger
}

func NewUserService(users *repos.UserRepo, log *utils.Logger) *UserService {
	return &UserService{users: users, log: log.With("service", "UserService")}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, nil, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	roles, err := s.Roles(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	user.PasswordHash = ""
	return user, nil
}

// Roles always includes the implicit "user" role.
func (s *UserService) Roles(ctx context.Context, userID string) ([]string, error) {
	granted, err := s.users.Roles(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return mergeRoles(granted), nil
}

func (s *UserService) HasRole(ctx context.Context, userID, role string) (bool, error) {
	roles, err := s.Roles(ctx, userID)
	if err != nil {
		return false, err
	}
	return lo.Contains(roles, role), nil
}

func (s *UserService) GrantRole(ctx context.Context, userID, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return apperr.Validation("role is required")
	}
	if role == models.RoleUser {
		return nil
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := s.users.GrantRole(ctx, nil, userID, role); err != nil {
		return err
	}
	s.log.Info("Role granted", "user_id", userID, "role", role)
	return nil
}

// GrantRoleByEmail is used to bootstrap the first admin.
func (s *UserService) GrantRoleByEmail(ctx context.Context, email, role string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	if err := s.GrantRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, user.ID)
}
