package service

import (
	"testing"
	"time"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterHashesPasswordAndRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Student", Email: "reg@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(user))
	assert.NotEqual(t, "supersecret", user.Password)
	assert.Equal(t, model.RoleUser, user.Role)

	dup := &model.User{Name: "Other", Email: "reg@example.com", Password: "supersecret"}
	assert.ErrorIs(t, svc.Register(dup), util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Student", Email: "login@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(user))

	token, err := svc.Login("login@example.com", "supersecret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret-test-secret-test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	_, err = svc.Login("login@example.com", "wrongpass")
	assert.Error(t, err)

	_, err = svc.Login("nobody@example.com", "supersecret")
	assert.Error(t, err)
}
