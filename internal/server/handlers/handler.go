// Package handlers は HTTP ハンドラー群を提供します。各ハンドラーは
// リクエストの形の検証までを担い、ドメインの判断はパイプラインと
// ストアに委譲します。
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"yt-blog-web/internal/adapters"
	"yt-blog-web/internal/domain"
	"yt-blog-web/internal/store"
)

// BlogGenerator はブログ生成パイプラインの実行契約です。
type BlogGenerator interface {
	Execute(ctx context.Context, ownerID string, req domain.GenerateBlogRequest) (*domain.GenerationResult, error)
}

// TokenIssuer はセッショントークンの発行契約です。
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}

// Handler は全エンドポイントの依存を束ねます。
type Handler struct {
	generator BlogGenerator
	users     store.UserStore
	posts     store.PostStore
	tokens    TokenIssuer
	notifier  adapters.SlackNotifier
}

// New は Handler を構築します。notifier は nil 可で、その場合は通知を
// 行いません。
func New(generator BlogGenerator, users store.UserStore, posts store.PostStore, tokens TokenIssuer, notifier adapters.SlackNotifier) *Handler {
	return &Handler{
		generator: generator,
		users:     users,
		posts:     posts,
		tokens:    tokens,
		notifier:  notifier,
	}
}

// respondJSON は JSON レスポンスを書き出します。
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError はエラーレスポンスを書き出します。
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
