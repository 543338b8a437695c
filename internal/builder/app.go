// Package builder はアプリケーションの依存関係を組み立てます。
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"yt-blog-web/internal/adapters"
	"yt-blog-web/internal/auth"
	"yt-blog-web/internal/config"
	"yt-blog-web/internal/gateway"
	"yt-blog-web/internal/pipeline"
	"yt-blog-web/internal/server/handlers"
	"yt-blog-web/internal/store"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext はアプリケーションの依存関係を保持します。
// 各フィールドをインターフェースで定義することで、将来的なモック利用を容易にします。
type AppContext struct {
	Config        *config.Config
	Factory       remoteio.IOFactory
	Writer        remoteio.OutputWriter
	HTTPClient    httpkit.ClientInterface
	SlackNotifier adapters.SlackNotifier
	Tokens        *auth.TokenService
	Users         store.UserStore
	Posts         store.PostStore
	Orchestrator  *pipeline.Orchestrator
}

// BuildAppContext は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	// 1. 基盤クライアントの初期化
	httpClient := httpkit.New(config.DefaultHTTPTimeout)
	verifyClient := &http.Client{Timeout: config.DefaultHTTPTimeout}

	// 2. I/O インフラ (GCS) の初期化
	ioFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS factory: %w", err)
	}
	writer, err := ioFactory.OutputWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create output writer: %w", err)
	}

	// 3. 生成系クライアントの初期化
	gemini, err := gateway.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	agent := adapters.NewSearchAgentClient(cfg.AgentURL, cfg.AgentAppName, cfg.AgentTimeout)

	// 4. パイプラインの組み立て
	runner := pipeline.NewStageRunner(gemini, cfg.TextModel, cfg.StageTimeout)
	imageStore := adapters.NewGCSImageStore(writer, cfg, verifyClient)
	imageBranch := pipeline.NewImageBranch(
		pipeline.NewGeminiProviders(gemini, cfg.ImageModel, cfg.ImageFallbackModel),
		imageStore,
		cfg.StageTimeout,
	)
	orchestrator := pipeline.NewOrchestrator(runner, agent, imageBranch)

	// 5. アダプターとストアの初期化
	slack, err := adapters.NewSlackAdapter(httpClient, cfg.SlackWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}
	memStore := store.NewMemoryStore()

	return &AppContext{
		Config:        cfg,
		Factory:       ioFactory,
		Writer:        writer,
		HTTPClient:    httpClient,
		SlackNotifier: slack,
		Tokens:        auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		Users:         memStore,
		Posts:         memStore,
		Orchestrator:  orchestrator,
	}, nil
}

// BuildHandlers は AppContext から HTTP ハンドラー群を組み立てます。
func BuildHandlers(appCtx *AppContext) *handlers.Handler {
	return handlers.New(
		appCtx.Orchestrator,
		appCtx.Users,
		appCtx.Posts,
		appCtx.Tokens,
		appCtx.SlackNotifier,
	)
}

// Close は保持しているリソースを解放します。
func (a *AppContext) Close() {
	if a.Factory != nil {
		if err := a.Factory.Close(); err != nil {
			slog.Warn("Failed to close IO factory", "error", err)
		}
	}
}
