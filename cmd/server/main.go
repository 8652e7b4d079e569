package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"nodepilot/internal/blueprint"
	"nodepilot/internal/config"
	"nodepilot/internal/generator"
	"nodepilot/internal/graph"
	"nodepilot/internal/handler"
	"nodepilot/internal/logger"
	"nodepilot/internal/middleware"
	"nodepilot/internal/service"
	"nodepilot/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func run() error {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化日志
	logData, err := logger.New().FromPath(cfg.Log.File).WithLevel(cfg.Log.Level).Make()
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logData.Close()
	lg := logData.Logger

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)

	// 初始化存储
	codec, err := storage.NewCodec(cfg.Data.Codec)
	if err != nil {
		return err
	}
	pathManager := storage.NewPathManager(cfg.Data.RootPath, cfg.Data.Namespace)
	snapshots := storage.NewSnapshotStorage(pathManager, codec)
	history, err := storage.OpenHistory(pathManager.GetHistoryDBPath())
	if err != nil {
		return err
	}
	defer history.Close()

	// 初始化服务
	hub := handler.NewEventHub(lg, cfg.Server.AllowedOrigins)
	defer hub.Close()
	gen := generator.New(cfg.Generator.BaseURL, cfg.Generator.Timeout)
	workflowService := service.NewWorkflowService(graph.New(), snapshots, history, gen, hub, lg)

	if err := workflowService.Restore(); err != nil {
		return err
	}
	if err := seedBlueprint(cfg.Blueprint.FilePath, workflowService, lg); err != nil {
		return err
	}

	// 创建路由
	router := gin.New()
	router.Use(middleware.Logger(lg))
	router.Use(middleware.Recovery(lg))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	handler.NewHandlers(workflowService, hub).Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info().
			Str("addr", srv.Addr).
			Str("namespace", pathManager.Namespace()).
			Str("snapshot", snapshots.Path()).
			Str("generator", cfg.Generator.BaseURL).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		lg.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seedBlueprint 工作区为空时导入配置的蓝图
func seedBlueprint(path string, workflowService *service.WorkflowService, lg zerolog.Logger) error {
	if path == "" {
		return nil
	}
	if len(workflowService.Snapshot().Nodes) > 0 {
		lg.Info().Str("blueprint", path).Msg("workflow not empty, blueprint skipped")
		return nil
	}

	loader := blueprint.NewLoader(path)
	if err := loader.Load(); err != nil {
		return fmt.Errorf("failed to load blueprint: %w", err)
	}
	if _, err := workflowService.Import(loader.Blueprint()); err != nil {
		return err
	}
	return nil
}
