package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/photogur/photogur/database/models"
	"github.com/photogur/photogur/database/repo/accounts"
	"github.com/photogur/photogur/session/types"
	"github.com/photogur/photogur/utils"
	"github.com/photogur/photogur/utils/crypto"
)

var (
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken 用户名已被占用
	ErrUsernameTaken = errors.New("username already taken")
)

// LoginResult 登录结果
type LoginResult struct {
	User    *models.User
	Token   string
	Expires time.Time
}

// LoginService 登录/注册服务
type LoginService struct {
	accountsRepo *accounts.Repository
	sessions     types.Store
	sessionTTL   time.Duration
}

// NewLoginService 创建新的登录服务
func NewLoginService(accountsRepo *accounts.Repository, sessions types.Store, sessionTTL time.Duration) *LoginService {
	return &LoginService{
		accountsRepo: accountsRepo,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
	}
}

// ValidateCredentials 验证用户凭据
func (s *LoginService) ValidateCredentials(username, password string) (*models.User, bool, error) {
	user, err := s.accountsRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := crypto.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, false, fmt.Errorf("password comparison failed: %w", err)
	}

	return user, ok, nil
}

// Login 执行登录操作，成功后建立服务端会话
func (s *LoginService) Login(username, password string) (*LoginResult, error) {
	user, valid, err := s.ValidateCredentials(username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to validate credentials: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(user)
}

// Signup 创建新用户
func (s *LoginService) Signup(username, password string) (*models.User, error) {
	exists, err := s.accountsRepo.UserExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashed, err := crypto.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: hashed,
	}
	if err := s.accountsRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// SignupAndLogin 创建新用户并立即建立会话
func (s *LoginService) SignupAndLogin(username, password string) (*LoginResult, error) {
	user, err := s.Signup(username, password)
	if err != nil {
		return nil, err
	}
	return s.establishSession(user)
}

// Logout 执行登出操作
func (s *LoginService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(token)
}

// CurrentSession 通过 token 获取会话
func (s *LoginService) CurrentSession(token string) (types.Session, error) {
	return s.sessions.Get(token)
}

// establishSession 生成随机 token 并持久化会话
func (s *LoginService) establishSession(user *models.User) (*LoginResult, error) {
	token, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	sess := types.Session{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Save(token, sess, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &LoginResult{
		User:    user,
		Token:   token,
		Expires: time.Now().Add(s.sessionTTL),
	}, nil
}
