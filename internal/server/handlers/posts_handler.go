package handlers

import (
	"log/slog"
	"net/http"

	"yt-blog-web/internal/auth"
	"yt-blog-web/internal/domain"
)

type userPostsResponse struct {
	Posts []domain.Post `json:"posts"`
}

// GetUserPosts は GET /get-user-posts のハンドラーです。認証済み利用者
// 自身の記事を新しい順で返します。
func (h *Handler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	posts, err := h.posts.ListPostsByAuthor(r.Context(), identity.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list posts", "user_id", identity.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}

	respondJSON(w, http.StatusOK, userPostsResponse{Posts: posts})
}
