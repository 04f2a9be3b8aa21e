package memory

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/photogur/photogur/session/types"
)

// Memory 进程内会话存储实现
type Memory struct {
	client *ristretto.Cache
}

// Config 内存存储配置
type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// DefaultConfig 默认配置，约十万活跃会话
func DefaultConfig() Config {
	return Config{
		NumCounters: 1000000,
		MaxCost:     100000,
		BufferItems: 64,
	}
}

// NewMemory 创建新的内存会话存储
func NewMemory(config Config) (*Memory, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
	})

	if err != nil {
		return nil, err
	}

	return &Memory{
		client: client,
	}, nil
}

// Save 保存会话
func (m *Memory) Save(token string, sess types.Session, ttl time.Duration) error {
	set := m.client.SetWithTTL(token, sess, 1, ttl)
	if set {
		// 等待值被实际设置，登录后的下一个请求必须能看到会话
		m.client.Wait()
	}
	return nil
}

// Get 获取会话
func (m *Memory) Get(token string) (types.Session, error) {
	value, found := m.client.Get(token)
	if !found {
		return types.Session{}, types.ErrSessionNotFound
	}

	sess, ok := value.(types.Session)
	if !ok {
		return types.Session{}, types.ErrSessionNotFound
	}
	return sess, nil
}

// Delete 删除会话
func (m *Memory) Delete(token string) error {
	m.client.Del(token)
	m.client.Wait()
	return nil
}

// Ping 检查存储健康状态
func (m *Memory) Ping() error {
	return nil
}

// Close 关闭存储
func (m *Memory) Close() error {
	m.client.Close()
	return nil
}
