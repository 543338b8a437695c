package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"yt-blog-web/internal/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-notifier/pkg/factory"
	"github.com/shouni/go-notifier/pkg/slack"
)

// --- インターフェース定義 ---

type SlackNotifier interface {
	Notify(ctx context.Context, postURL string, req domain.NotificationRequest) error
	NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error
}

// --- 具象アダプター ---

type SlackAdapter struct {
	httpClient  httpkit.ClientInterface
	webhookURL  string
	slackClient *slack.Client
}

// NewSlackAdapter は Slack 通知アダプターを構築します。webhookURL が
// 未設定の場合、通知はすべてスキップされます。
func NewSlackAdapter(httpClient httpkit.ClientInterface, webhookURL string) (*SlackAdapter, error) {
	if webhookURL == "" {
		return &SlackAdapter{webhookURL: webhookURL}, nil
	}
	client, err := factory.GetSlackClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("Slackクライアントの初期化に失敗したのだ: %w", err)
	}

	return &SlackAdapter{
		httpClient:  httpClient,
		webhookURL:  webhookURL,
		slackClient: client,
	}, nil
}

// Notify はブログ生成の完了通知を送信します。
func (a *SlackAdapter) Notify(ctx context.Context, postURL string, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、通知をスキップします。", "title", req.TargetTitle)
		return nil
	}

	icon := "📝"
	if req.OutputCategory == "blog-post-with-image" {
		icon = "🖼️"
	}

	title := fmt.Sprintf("%s ブログ記事の生成が完了しました！", icon)
	content := a.buildSlackContent(postURL, req)

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへの投稿に失敗しました: %w", err)
	}

	slog.Info("Slack に完了通知を送信しました。", "title", req.TargetTitle)
	return nil
}

// NotifyError はエラー詳細と実行メタデータを含むエラー通知を送信します。
func (a *SlackAdapter) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、エラー通知をスキップします。", "error", errDetail)
		return nil
	}

	title := "❌ ブログ生成中にエラーが発生しました"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*ソース動画:* %s\n", req.SourceURL))
	sb.WriteString(fmt.Sprintf("*実行モード:* `%s`\n\n", req.ExecutionMode))

	// エラー詳細をコードブロックで囲むことで可読性を確保します。
	sb.WriteString("*エラー内容:*\n")
	sb.WriteString(fmt.Sprintf("```\n%v\n```\n", errDetail))

	if req.OutputCategory != "" && req.OutputCategory != domain.CategoryNotAvailable {
		sb.WriteString(fmt.Sprintf("\n📍 *カテゴリ:* `%s`", req.OutputCategory))
	}

	if err := a.slackClient.SendTextWithHeader(ctx, title, sb.String()); err != nil {
		return fmt.Errorf("Slackへのエラー通知に失敗しました: %w", err)
	}

	slog.Info("Slack にエラー通知を送信しました。", "error", errDetail)
	return nil
}

// buildSlackContent は完了通知の本文を組み立てます。
func (a *SlackAdapter) buildSlackContent(postURL string, req domain.NotificationRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**記事タイトル:** `%s`\n", req.TargetTitle))
	sb.WriteString(fmt.Sprintf("**実行モード:** `%s`\n", req.ExecutionMode))
	sb.WriteString(fmt.Sprintf("**ソース動画:** %s\n\n", req.SourceURL))

	if postURL != "" && postURL != domain.CategoryNotAvailable {
		sb.WriteString(fmt.Sprintf("🖼️ **アイキャッチ画像:** <%s|ここから確認するのだ！>\n", postURL))
	}

	return sb.String()
}
