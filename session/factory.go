package session

import (
	"fmt"
	"log"

	"github.com/photogur/photogur/config"
	"github.com/photogur/photogur/session/memory"
	"github.com/photogur/photogur/session/redis"
	"github.com/photogur/photogur/session/types"
)

// NewStore 根据配置创建会话存储
func NewStore(cfg *config.Config) (types.Store, error) {
	storeType := cfg.SessionStoreType
	if storeType == "" {
		storeType = "memory"
	}

	switch storeType {
	case "memory":
		store, err := memory.NewMemory(memory.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create memory session store: %w", err)
		}
		log.Println("[SessionStore] Using in-process memory store")
		return store, nil
	case "redis":
		store, err := redis.NewRedis(cfg.SessionRedisAddr, cfg.SessionRedisPass, cfg.SessionRedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis session store: %w", err)
		}
		log.Printf("[SessionStore] Using redis store at %s", cfg.SessionRedisAddr)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", storeType)
	}
}
