package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"yt-blog-web/internal/auth"
	"yt-blog-web/internal/domain"

	"github.com/google/uuid"
)

// generateBlogResponse は生成成功時のレスポンスです。imageUrl は画像が
// 実際にアップロードされた場合にのみ現れます。
type generateBlogResponse struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// GenerateBlog は POST /generate-blog のハンドラーです。
// リクエスト検証の失敗は 400、パイプラインの失敗は種別を問わず 500 を
// 返します。記事の保存は完全成功時にのみ、ちょうど1回行われます。
func (h *Handler) GenerateBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req domain.GenerateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.generator.Execute(r.Context(), identity.ID, req)
	if err != nil {
		slog.ErrorContext(r.Context(), "Blog generation failed",
			"user_id", identity.ID,
			"video_url", req.VideoURL,
			"error", err,
		)
		h.notifyError(r, err, req)
		// 失敗の内部詳細はクライアントへ漏らしません。
		respondError(w, http.StatusInternalServerError, "failed to generate post")
		return
	}

	post := buildPost(identity.ID, req, result)
	if err := h.posts.CreatePost(r.Context(), post); err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist post", "post_id", post.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save post")
		return
	}

	h.notifySuccess(r, result, req)

	respondJSON(w, http.StatusOK, generateBlogResponse{
		Title:    result.Draft.Title,
		Content:  result.Draft.Content,
		ImageURL: result.ImageURL,
	})
}

// buildPost は生成結果から永続化レコードを組み立てます。画像は
// アップロードが成功した場合にのみ、高々1件紐づきます。
func buildPost(authorID string, req domain.GenerateBlogRequest, result *domain.GenerationResult) domain.Post {
	post := domain.Post{
		ID:             uuid.NewString(),
		AuthorID:       authorID,
		Title:          result.Draft.Title,
		Content:        result.Draft.Content,
		VideoURL:       req.VideoURL,
		Tone:           req.Tone,
		Length:         req.Length,
		ContentType:    req.ContentType,
		GeneratedImage: req.GenerateImage,
		CreatedAt:      time.Now(),
	}
	if result.ImageURL != "" {
		post.Images = []domain.PostImage{{URL: result.ImageURL}}
	}
	return post
}

func (h *Handler) notifySuccess(r *http.Request, result *domain.GenerationResult, req domain.GenerateBlogRequest) {
	if h.notifier == nil {
		return
	}
	notification := domain.NotificationRequest{
		SourceURL:      req.VideoURL,
		OutputCategory: outputCategory(result.ImageURL),
		TargetTitle:    result.Draft.Title,
		ExecutionMode:  executionMode(req),
	}
	if err := h.notifier.Notify(r.Context(), result.ImageURL, notification); err != nil {
		slog.WarnContext(r.Context(), "Slack notification failed", "error", err)
	}
}

func (h *Handler) notifyError(r *http.Request, genErr error, req domain.GenerateBlogRequest) {
	if h.notifier == nil {
		return
	}
	notification := domain.NotificationRequest{
		SourceURL:      req.VideoURL,
		OutputCategory: domain.CategoryNotAvailable,
		ExecutionMode:  executionMode(req),
	}
	if err := h.notifier.NotifyError(r.Context(), genErr, notification); err != nil {
		slog.WarnContext(r.Context(), "Slack error notification failed", "error", err)
	}
}

func executionMode(req domain.GenerateBlogRequest) string {
	return fmt.Sprintf("%s / %s / %s", req.Length, req.Tone, req.ContentType)
}

func outputCategory(imageURL string) string {
	if imageURL != "" {
		return "blog-post-with-image"
	}
	return "blog-post"
}
