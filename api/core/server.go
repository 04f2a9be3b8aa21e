package core

import (
	"net/http"

	"github.com/photogur/photogur/config"
)

// StartServer 构建 HTTP 服务器，返回服务器实例和清理函数
// 调用方负责 ListenAndServe 和优雅退出
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := config.Get()

	router, cleanup := setupRouter(deps)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return server, cleanup
}
