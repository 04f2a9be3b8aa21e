package types

import (
	"errors"
	"time"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

// Session 服务端会话记录，以随机 token 为键
type Session struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Store 会话存储接口
type Store interface {
	// Save 保存会话
	Save(token string, sess Session, ttl time.Duration) error

	// Get 获取会话
	Get(token string) (Session, error)

	// Delete 删除会话
	Delete(token string) error

	// Ping 检查存储健康状态
	Ping() error

	// Close 关闭存储连接
	Close() error
}
