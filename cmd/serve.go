package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/photogur/photogur/api/core"
	"github.com/photogur/photogur/config"
	"github.com/photogur/photogur/database"
	"github.com/photogur/photogur/database/repo/accounts"
	commentsrepo "github.com/photogur/photogur/database/repo/comments"
	picturesrepo "github.com/photogur/photogur/database/repo/pictures"
	"github.com/photogur/photogur/internal/auth"
	"github.com/photogur/photogur/internal/pictures"
	"github.com/photogur/photogur/session"
	"github.com/photogur/photogur/storage"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start web server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 自动DDL
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}
	log.Println("Database initialized successfully")

	sessionStore, err := session.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}

	storageFactory, err := storage.NewFactory(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	accountsRepo := accounts.NewRepository(db)
	picturesRepo := picturesrepo.NewRepository(db)
	commentsRepo := commentsrepo.NewRepository(db)

	loginService := auth.NewLoginService(accountsRepo, sessionStore, cfg.SessionTTL)
	pictureService := pictures.NewService(picturesRepo, storageFactory.GetDefault(), cfg.UploadMaxSizeMB)

	// 创建服务器依赖
	deps := &core.ServerDependencies{
		AccountsRepo:   accountsRepo,
		PicturesRepo:   picturesRepo,
		CommentsRepo:   commentsRepo,
		SessionStore:   sessionStore,
		StorageFactory: storageFactory,
		LoginService:   loginService,
		PictureService: pictureService,
	}

	// 启动gin
	server, cleanup := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
		log.Println("Cleanup tasks finished.")
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := sessionStore.Close(); err != nil {
		log.Printf("Error closing session store: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	log.Println("Server exited successfully")
}
