package server

import (
	"net/http"

	"yt-blog-web/internal/auth"
	"yt-blog-web/internal/config"
	"yt-blog-web/internal/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(cfg *config.Config, h *handlers.Handler, verifier auth.TokenVerifier) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, cfg, h, verifier)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, cfg *config.Config, h *handlers.Handler, verifier auth.TokenVerifier) {
	// --- 公開ルート ---
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// --- 認証が必要なルート ---
	// レート制限は認証の後段に置きます。利用者単位の枠が先に判定され、
	// その後に IP 単位の枠が判定されます。枠はリクエスト受理時点で消費
	// されるため、後続の生成が失敗しても返却はされません。
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		r.Use(userRateLimiter(cfg))
		r.Use(ipRateLimiter(cfg))

		r.Post("/generate-blog", h.GenerateBlog)
		r.Get("/get-user-posts", h.GetUserPosts)
	})
}

// userRateLimiter は認証済み利用者ID単位の時間枠制限です。アイデンティティを
// 解決できない場合は IP にフォールバックします。
func userRateLimiter(cfg *config.Config) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.UserRateLimit,
		config.DefaultRateWindow,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if id, ok := auth.IdentityFrom(r.Context()); ok && id.ID != "" {
				return "user:" + id.ID, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// ipRateLimiter は接続元IP単位の時間枠制限です。利用者枠とは独立に
// 判定されます。
func ipRateLimiter(cfg *config.Config) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.IPRateLimit,
		config.DefaultRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

func rateLimitExceeded(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"rate limit exceeded, try again later"}`))
}
