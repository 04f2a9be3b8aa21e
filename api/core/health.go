package core

import (
	"context"
	"net/http"
	"time"

	"github.com/photogur/photogur/config"
	"github.com/photogur/photogur/database/repo/accounts"
	"github.com/photogur/photogur/session/types"
	"github.com/photogur/photogur/storage"
	"github.com/gin-gonic/gin"
)

func healthHandler(deps *ServerDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"database": checkDatabaseHealth(deps.AccountsRepo),
				"sessions": checkSessionHealth(deps.SessionStore),
				"storage":  checkStorageHealth(deps.StorageFactory),
			},
		}
		if deps.StorageFactory != nil {
			health["storage"] = gin.H{
				"default":   deps.StorageFactory.GetDefaultName(),
				"providers": deps.StorageFactory.ListProviders(),
			}
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(httpStatus, health)
	}
}

func checkDatabaseHealth(repo *accounts.Repository) string {
	if repo == nil {
		return "not initialized"
	}

	db := repo.DB()
	if db == nil {
		return "not initialized"
	}
	sqlDB, err := db.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkSessionHealth(store types.Store) string {
	if store == nil {
		return "not initialized"
	}
	if err := store.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkStorageHealth(storageFactory *storage.Factory) string {
	if storageFactory == nil {
		return "not initialized"
	}

	provider := storageFactory.GetDefault()
	if provider == nil {
		return "error: no default storage provider"
	}

	ctx := context.Background()
	if err := provider.Health(ctx); err != nil {
		return "error: " + err.Error()
	}

	return "ok"
}
