package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizlearn/backend/apperr"
	"quizlearn/backend/models"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Register(ctx, "  Alice@Example.com ", "pw-1", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, []string{models.RoleUser}, user.Roles)

	logged, token, err := e.auth.Login(ctx, "ALICE@example.com", "pw-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	verified, err := e.auth.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestRegisterDuplicateEmailAnyCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Register(ctx, "bob@example.com", "original", "Bob")
	require.NoError(t, err)

	_, err = e.auth.Register(ctx, "BOB@Example.COM", "other", "Bobby")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, _, err = e.auth.Login(ctx, "bob@example.com", "original")
	assert.NoError(t, err, "first account keeps its password")
	_, _, err = e.auth.Login(ctx, "bob@example.com", "other")
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Register(context.Background(), " ", "", "  ")
	require.Error(t, err)
	appErr := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
	assert.Contains(t, appErr.Fields, "name")
}

func TestLoginFailuresLookAlike(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "carol@example.com")

	_, _, unknown := e.auth.Login(ctx, "nobody@example.com", "secret-password")
	_, _, wrong := e.auth.Login(ctx, "carol@example.com", "bad")

	require.Error(t, unknown)
	require.Error(t, wrong)
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(unknown))
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Verify(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))

	_, err = e.auth.Verify(ctx, "not-a-jwt")
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))

	dangling, err := e.auth.IssueToken("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	_, err = e.auth.Verify(ctx, dangling)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
}

func TestRoles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.register(t, "dave@example.com")

	isAdmin, err := e.users.HasRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, e.users.GrantRole(ctx, user.ID, "Admin"))
	require.NoError(t, e.users.GrantRole(ctx, user.ID, models.RoleAdmin), "granting twice is a no-op")

	roles, err := e.users.Roles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser, models.RoleAdmin}, roles)

	err = e.users.GrantRole(ctx, "missing", models.RoleAdmin)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	other := e.register(t, "erin@example.com")
	granted, err := e.users.GrantRoleByEmail(ctx, "ERIN@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, other.ID, granted.ID)
	assert.Contains(t, granted.Roles, models.RoleAdmin)

	_, err = e.users.GrantRoleByEmail(ctx, "nobody@example.com", models.RoleAdmin)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
