package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yt-blog-web/internal/domain"
	"yt-blog-web/internal/gateway"
	"yt-blog-web/internal/prompts"
)

// ImageProvider は画像生成の1候補です。ブランチは候補を順に試し、
// 最初の成功を採用します。
type ImageProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (domain.ImageArtifact, error)
}

// ImageStore は生成画像の永続化先です。Upload は公開URLを返し、
// Verify はそのURLへの到達性を確認します。
type ImageStore interface {
	Upload(ctx context.Context, ownerID string, data []byte) (string, error)
	Verify(ctx context.Context, url string) error
}

// ImageBranch は画像生成ブランチ全体です。プロバイダー列の生成試行、
// ペイロードのデコード、アップロード、到達確認までを担い、どの段階の
// 失敗も「画像なし」へ吸収します。このブランチが実行全体を失敗させる
// ことはありません。
type ImageBranch struct {
	providers []ImageProvider
	store     ImageStore
	timeout   time.Duration
}

// NewImageBranch は ImageBranch を構築します。
func NewImageBranch(providers []ImageProvider, store ImageStore, timeout time.Duration) *ImageBranch {
	return &ImageBranch{providers: providers, store: store, timeout: timeout}
}

// NewGeminiProviders は設定されたモデル列を gateway.ImageGenerator 経由の
// プロバイダー列に変換します。
func NewGeminiProviders(gw gateway.ImageGenerator, models ...string) []ImageProvider {
	providers := make([]ImageProvider, 0, len(models))
	for _, m := range models {
		if m == "" {
			continue
		}
		providers = append(providers, &geminiImageProvider{gw: gw, model: m})
	}
	return providers
}

type geminiImageProvider struct {
	gw    gateway.ImageGenerator
	model string
}

func (p *geminiImageProvider) Name() string { return p.model }

func (p *geminiImageProvider) Generate(ctx context.Context, prompt string) (domain.ImageArtifact, error) {
	raw, err := p.gw.GenerateImage(ctx, p.model, prompt)
	if err != nil {
		return domain.ImageArtifact{}, err
	}
	return domain.ImageArtifact{RawMediaURL: raw}, nil
}

// Run は画像ブランチを実行し、アップロード済み画像の公開URLを返します。
// 空文字列は「画像なし」を意味し、正常な結果です。
func (b *ImageBranch) Run(ctx context.Context, ownerID, summary string) string {
	if len(b.providers) == 0 {
		return ""
	}

	artifact, ok := b.generate(ctx, summary)
	if !ok {
		return ""
	}

	data, err := decodeImagePayload(artifact.RawMediaURL)
	if err != nil {
		// 不正なペイロードは「画像なし」へ格下げし、アップロードは試みません
		slog.WarnContext(ctx, "Image payload decode failed, continuing without image",
			"stage", stageImage, "error", err)
		return ""
	}

	url, err := b.store.Upload(ctx, ownerID, data)
	if err != nil {
		slog.WarnContext(ctx, "Image upload failed, continuing without image", "error", err)
		return ""
	}

	if err := b.store.Verify(ctx, url); err != nil {
		slog.WarnContext(ctx, "Uploaded image URL is not reachable, continuing without image",
			"url", url, "error", err)
		return ""
	}

	return url
}

// generate はプロバイダーを宣言順に試し、最初の成功を返します。
// 全滅した場合は ok=false です。
func (b *ImageBranch) generate(ctx context.Context, summary string) (domain.ImageArtifact, bool) {
	prompt := prompts.HeaderImage(summary)

	for _, p := range b.providers {
		artifact, err := b.tryProvider(ctx, p, prompt)
		if err != nil {
			slog.WarnContext(ctx, "Image provider failed, trying next",
				"provider", p.Name(), "error", err)
			continue
		}
		slog.InfoContext(ctx, "Image generated", "provider", p.Name())
		return artifact, true
	}

	slog.InfoContext(ctx, "All image providers failed, continuing without image")
	return domain.ImageArtifact{}, false
}

func (b *ImageBranch) tryProvider(ctx context.Context, p ImageProvider, prompt string) (domain.ImageArtifact, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	return p.Generate(ctx, prompt)
}

// decodeImagePayload は base64 ペイロードをバイナリへ復号します。
// "data:image/png;base64," のようなプレフィックスは剥がします。
func decodeImagePayload(raw string) ([]byte, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, fmt.Errorf("empty image payload")
	}

	if strings.HasPrefix(payload, "data:") {
		idx := strings.IndexByte(payload, ',')
		if idx < 0 {
			return nil, fmt.Errorf("data URI without payload separator")
		}
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("decoded image buffer is empty")
	}
	return data, nil
}
