// Package gateway は外部の生成AIゲートウェイへの薄いアダプター層です。
// パイプライン側はここのインターフェースだけに依存し、ベンダー固有の型は
// このパッケージの外へ出しません。
package gateway

import "context"

// TextRequest は構造化出力を期待する1回のテキスト生成呼び出しです。
type TextRequest struct {
	// Model は使用するモデル名です。
	Model string
	// Prompt はステージ固有の指示文です。
	Prompt string
	// VideoURL が非空の場合、動画参照をメディアパートとして添付します。
	VideoURL string
	// Schema は応答に期待する JSON オブジェクトの形です。nil の場合は
	// JSON 出力のみ要求します。
	Schema *Schema
}

// Schema は応答スキーマの宣言です。ゲートウェイ実装がベンダー形式へ
// 変換します。
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// Property は1プロパティの型宣言です。
type Property struct {
	// Type は "string" または "string-array" です。
	Type        string
	Description string
}

const (
	TypeString      = "string"
	TypeStringArray = "string-array"
)

// TextGenerator は構造化JSON応答を返す生成呼び出しです。
// 応答の生バイト列を返し、型への展開と検証は呼び出し側が行います。
type TextGenerator interface {
	GenerateJSON(ctx context.Context, req TextRequest) ([]byte, error)
}

// ImageGenerator は画像生成呼び出しです。応答は base64 エンコード済みの
// メディアペイロード(data: URI 形式)として返します。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
}
