package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"yt-blog-web/internal/config"

	"github.com/google/uuid"
)

// 明らかに画像として成立しないサイズのバッファはアップロードしません。
const minImageBytes = 100

// ObjectWriter は remoteio.OutputWriter のうち、画像保存に必要な操作の
// 部分集合です。
type ObjectWriter interface {
	Write(ctx context.Context, uri string, r io.Reader, contentType string) error
}

// GCSImageStore は go-remote-io の Writer を使って生成画像を GCS に保存する
// pipeline.ImageStore 実装です。
type GCSImageStore struct {
	writer     ObjectWriter
	cfg        *config.Config
	httpClient *http.Client
}

// NewGCSImageStore は GCSImageStore を構築します。httpClient は
// アップロード後の到達確認(HEAD)に使用します。
func NewGCSImageStore(writer ObjectWriter, cfg *config.Config, httpClient *http.Client) *GCSImageStore {
	return &GCSImageStore{
		writer:     writer,
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// Upload は画像バッファをバケットへ書き込み、公開URLを返します。
func (s *GCSImageStore) Upload(ctx context.Context, ownerID string, data []byte) (string, error) {
	if len(data) < minImageBytes {
		return "", fmt.Errorf("image buffer is too small (%d bytes)", len(data))
	}

	objectPath := s.cfg.ImagePath(ownerID, uuid.NewString()+".png")
	gcsURL := fmt.Sprintf("gs://%s/%s", s.cfg.GCSBucket, objectPath)

	if err := s.writer.Write(ctx, gcsURL, bytes.NewReader(data), "image/png"); err != nil {
		return "", fmt.Errorf("failed to upload image to GCS: %w", err)
	}

	publicURL := s.cfg.PublicImageURL(objectPath)
	slog.InfoContext(ctx, "Image uploaded", "path", objectPath, "bytes", len(data))
	return publicURL, nil
}

// Verify はアップロード済みURLへ HEAD リクエストを送り、到達性を確認します。
func (s *GCSImageStore) Verify(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build verification request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image URL verification failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}
	return nil
}
