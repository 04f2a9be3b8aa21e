package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/photogur/photogur/session/types"
)

const keyPrefix = "photogur:session:"

// Redis 实现了types.Store接口
type Redis struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedis 创建一个新的Redis会话存储
func NewRedis(addr, password string, db int) (types.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	return &Redis{
		client: client,
		ctx:    ctx,
	}, nil
}

// Save 保存会话
func (r *Redis) Save(token string, sess types.Session, ttl time.Duration) error {
	// 将会话序列化为JSON以便存储
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return r.client.Set(r.ctx, keyPrefix+token, data, ttl).Err()
}

// Get 获取会话
func (r *Redis) Get(token string) (types.Session, error) {
	data, err := r.client.Get(r.ctx, keyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return types.Session{}, types.ErrSessionNotFound
		}
		return types.Session{}, err
	}

	var sess types.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return types.Session{}, err
	}

	return sess, nil
}

// Delete 删除会话
func (r *Redis) Delete(token string) error {
	return r.client.Del(r.ctx, keyPrefix+token).Err()
}

// Ping 检查存储健康状态
func (r *Redis) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

// Close 关闭连接
func (r *Redis) Close() error {
	return r.client.Close()
}
