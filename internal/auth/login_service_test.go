package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/photogur/photogur/database/models"
	"github.com/photogur/photogur/database/repo/accounts"
	"github.com/photogur/photogur/session/memory"
	"github.com/photogur/photogur/session/types"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *LoginService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}))

	store, err := memory.NewMemory(memory.DefaultConfig())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewLoginService(accounts.NewRepository(db), store, time.Hour)
}

// --- 测试 注册 ---

func TestSignup(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Signup("alice", "hunter2hunter2")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	// 密码只存哈希
	assert.NotEqual(t, "hunter2hunter2", user.Password)
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Signup("alice", "hunter2hunter2")
	assert.NoError(t, err)

	_, err = svc.Signup("alice", "another-password")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.SignupAndLogin("alice", "hunter2hunter2")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// 注册后的会话立即可用
	sess, err := svc.CurrentSession(result.Token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, result.User.ID, sess.UserID)
}

// --- 测试 登录 ---

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Signup("alice", "hunter2hunter2")
	assert.NoError(t, err)

	result, err := svc.Login("alice", "hunter2hunter2")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.Expires.After(time.Now()))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Signup("alice", "hunter2hunter2")
	assert.NoError(t, err)

	_, err = svc.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t)

	// 未知用户与密码错误返回同一个错误
	_, err := svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// --- 测试 注销 ---

func TestLogout(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.SignupAndLogin("alice", "hunter2hunter2")
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(result.Token))

	_, err = svc.CurrentSession(result.Token)
	assert.ErrorIs(t, err, types.ErrSessionNotFound)
}

func TestValidateCredentials(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Signup("alice", "hunter2hunter2")
	assert.NoError(t, err)

	user, ok, err := svc.ValidateCredentials("alice", "hunter2hunter2")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", user.Username)

	_, ok, err = svc.ValidateCredentials("alice", "nope")
	assert.NoError(t, err)
	assert.False(t, ok)

	user, ok, err = svc.ValidateCredentials("ghost", "nope")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, user)
}
