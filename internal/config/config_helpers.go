package config

import (
	"fmt"

	"github.com/shouni/netarmor/securenet"
)

// ImagePath は生成画像のバケット内オブジェクトパスを組み立てます。
// 例: "users/42/3f1a....png"
func (c Config) ImagePath(userID, fileName string) string {
	return fmt.Sprintf("users/%s/%s", userID, fileName)
}

// PublicImageURL は、アップロード済みオブジェクトの公開URLを返します。
func (c Config) PublicImageURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.GCSBucket, objectPath)
}

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
// 欠落があれば起動時に即座に失敗させます。
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("configuration error: GEMINI_API_KEY is not set")
	}

	if cfg.AgentURL == "" || cfg.AgentAppName == "" {
		return fmt.Errorf("configuration error: AGENT_URL and AGENT_APP_NAME are required")
	}

	if cfg.GCSBucket == "" {
		return fmt.Errorf("configuration error: GCS_BUCKET_NAME is not set")
	}

	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET が設定されていません。セキュアな運用のために必須です")
	}

	if cfg.UserRateLimit <= 0 || cfg.IPRateLimit <= 0 {
		return fmt.Errorf("configuration error: rate limits must be positive")
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
