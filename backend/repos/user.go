package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/utils"
)

type UserRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewUserRepo(client *database.Client, baseLog *utils.Logger) *UserRepo {
	return &UserRepo{client: client, log: baseLog.With("repo", "UserRepo")}
}

func (r *UserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(user).Error
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// Roles returns the granted roles, without the implicit "user" role.
func (r *UserRepo) Roles(ctx context.Context, tx *gorm.DB, userID string) ([]string, error) {
	var roles []string
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Model(&models.RoleGrant{}).
			Where("user_id = ?", userID).
			Order("role ASC").
			Pluck("role", &roles).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// GrantRole is idempotent.
func (r *UserRepo) GrantRole(ctx context.Context, tx *gorm.DB, userID, role string) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.RoleGrant{UserID: userID, Role: role}).Error
	})
	if err != nil {
		return fmt.Errorf("grant role %s: %w", role, err)
	}
	return nil
}
