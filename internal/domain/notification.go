package domain

const CategoryNotAvailable = "N/A"

// NotificationRequest は Slack 等の通知コンポーネントで共有されるデータ構造です。
// 生成されたブログ記事のメタデータを通知先に伝えるために使用します。
type NotificationRequest struct {
	// SourceURL は、記事の元になった動画のURLです。
	SourceURL string `json:"source_url"`

	// OutputCategory は、出力先の種別です。(例: "blog-post", "blog-post-with-image")
	OutputCategory string `json:"output_category"`

	// TargetTitle は、生成された記事のタイトルです。
	TargetTitle string `json:"target_title"`

	// ExecutionMode は、実行時の指定です。(例: "medium / neutral / informative")
	ExecutionMode string `json:"execution_mode"`
}
