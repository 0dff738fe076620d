package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"github.com/Devan019/GenJob/internal/api/handler"
	"github.com/Devan019/GenJob/internal/api/router"
	"github.com/Devan019/GenJob/internal/config"
	appCoreLogger "github.com/Devan019/GenJob/internal/logger"
	"github.com/Devan019/GenJob/internal/parser"
	"github.com/Devan019/GenJob/internal/processor"
	"github.com/Devan019/GenJob/internal/provider"
	"github.com/Devan019/GenJob/internal/storage"
)

var (
	version     = "1.0.0"  //nolint:gochecknoglobals
	serviceName = "genjob" //nolint:gochecknoglobals
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("加载配置失败")
	}

	initLogger(cfg)
	glog.Infof("%s v%s 配置加载成功", serviceName, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	textExtractor, err := parser.NewTextExtractor(ctx)
	if err != nil {
		glog.Fatalf("创建简历文本提取器失败: %v", err)
	}
	glog.Info("简历文本提取器初始化成功")

	catalog := parser.DefaultCatalog()
	resumeExtractor := parser.NewResumeExtractor(catalog)
	jobAnalyzer := parser.NewJobAnalyzer(catalog)

	scorer, checkers := buildScoringChain(cfg, storageManager, jobAnalyzer)
	glog.Info("评分服务链初始化成功")

	atsHandler := handler.NewATSHandler(cfg, storageManager, textExtractor, resumeExtractor, scorer, checkers...)
	jobHandler := handler.NewJobPostingHandler(storageManager, jobAnalyzer)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, cfg, atsHandler, jobHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// buildScoringChain 按配置组装评分降级链
// 顺序固定：SharpAPI → MagicalAPI → 本地引擎；未启用远程时只有本地引擎
func buildScoringChain(cfg *config.Config, store *storage.Storage, analyzer *parser.JobAnalyzer) (processor.ScoreProvider, []processor.AvailabilityChecker) {
	local := processor.NewATSScorer(processor.WithAnalyzer(analyzer))

	if !cfg.ATS.UseRemote {
		return processor.NewFallbackProvider(local), nil
	}

	sharp := provider.NewSharpAPIProvider(cfg.ATS.SharpAPI.APIKey, cfg.ATS.SharpAPI.BaseURL)

	var sharer provider.ResumeSharer
	if store != nil && store.MinIO != nil {
		sharer = store.MinIO
	}
	magical := provider.NewMagicalAPIProvider(cfg.ATS.MagicalAPI.APIKey, cfg.ATS.MagicalAPI.BaseURL, sharer)

	providers := []processor.ScoreProvider{sharp, magical}
	if cfg.ATS.FallbackToLocal {
		providers = append(providers, local)
	}

	checkers := []processor.AvailabilityChecker{sharp, magical}
	return processor.NewFallbackProvider(providers...), checkers
}

// initLogger 初始化zerolog并把hertz的框架日志接到同一个输出上
func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
}
