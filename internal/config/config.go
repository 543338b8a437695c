package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTextModel          = "gemini-2.5-flash"
	DefaultImageModel         = "gemini-2.5-flash-image"
	DefaultImageFallbackModel = "gemini-2.0-flash-preview-image-generation"
	// DefaultStageTimeout 動画要約や画像生成など、Gemini API の応答を考慮したタイムアウト
	DefaultStageTimeout = 120 * time.Second
	// DefaultAgentTimeout 検索エージェントの SSE 応答を考慮したタイムアウト
	DefaultAgentTimeout = 30 * time.Second
	// DefaultHTTPTimeout 汎用 HTTP クライアント (通知・到達確認) のタイムアウト
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultRateWindow レートリミットの集計ウィンドウ (1時間固定)
	DefaultRateWindow      = time.Hour
	DefaultUserRateLimit   = 10
	DefaultIPRateLimit     = 30
	DefaultShutdownTimeout = 15 * time.Second
	DefaultTokenTTL        = 24 * time.Hour
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL string
	Port       string

	// Gemini Settings
	GeminiAPIKey       string
	TextModel          string // 要約・検索語・最終構成用モデル
	ImageModel         string // アイキャッチ画像の第一候補モデル
	ImageFallbackModel string // 第一候補が失敗した場合の代替モデル
	StageTimeout       time.Duration

	// Search Agent Settings (ADK エージェントの SSE エンドポイント)
	AgentURL     string
	AgentAppName string
	AgentTimeout time.Duration

	// Storage Settings
	GCSBucket string // 生成画像を保存するバケット

	// Auth Settings
	// JWTSecret はセッショントークンの HMAC 署名用シークレットキーです。
	JWTSecret string
	TokenTTL  time.Duration

	// Rate Limit Settings (1時間あたりの許容リクエスト数)
	UserRateLimit int
	IPRateLimit   int

	SlackWebhookURL string
	ShutdownTimeout time.Duration
}

// LoadConfig は環境変数から設定を読み込み、Config 構造体を生成します。
func LoadConfig() *Config {
	return &Config{
		ServiceURL: getEnv("SERVICE_URL", "http://localhost:8080"),
		Port:       getEnv("PORT", "8080"),

		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		TextModel:          getEnv("GEMINI_MODEL", DefaultTextModel),
		ImageModel:         getEnv("IMAGE_MODEL", DefaultImageModel),
		ImageFallbackModel: getEnv("IMAGE_FALLBACK_MODEL", DefaultImageFallbackModel),
		StageTimeout:       getDurationEnv("STAGE_TIMEOUT", DefaultStageTimeout),

		AgentURL:     getEnv("AGENT_URL", ""),
		AgentAppName: getEnv("AGENT_APP_NAME", ""),
		AgentTimeout: getDurationEnv("AGENT_TIMEOUT", DefaultAgentTimeout),

		GCSBucket: getEnv("GCS_BUCKET_NAME", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  DefaultTokenTTL,

		UserRateLimit: getIntEnv("USER_RATE_LIMIT", DefaultUserRateLimit),
		IPRateLimit:   getIntEnv("IP_RATE_LIMIT", DefaultIPRateLimit),

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
