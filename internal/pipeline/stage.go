package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"yt-blog-web/internal/gateway"
)

// Stage は1回のプロンプト/レスポンス往復の定義です。入力からプロンプトを
// 組み立て、ゲートウェイ応答を Out へ展開し、構造を検証します。
// ステージ自体は状態を持たず、呼び出し間で何も保持しません。
type Stage[In, Out any] struct {
	// Name はログと失敗理由に使うステージ識別子です。
	Name string
	// Prompt は入力ペイロードからステージ固有の指示文を構築します。
	Prompt func(In) string
	// Media は添付するメディア参照 URL を返します。nil なら添付なしです。
	Media func(In) string
	// Schema は応答に期待するスキーマ宣言です。
	Schema *gateway.Schema
	// Validate は展開済みペイロードの構造検証です。nil なら省略されます。
	Validate func(Out) error
}

// StageRunner はステージをゲートウェイに対して実行します。モデル名と
// ステージ単位のタイムアウトを束ねるだけで、ステージ間の状態は持ちません。
type StageRunner struct {
	gw      gateway.TextGenerator
	model   string
	timeout time.Duration
}

// NewStageRunner は StageRunner を構築します。timeout が 0 の場合、
// 呼び出しに個別の期限は設けません。
func NewStageRunner(gw gateway.TextGenerator, model string, timeout time.Duration) *StageRunner {
	return &StageRunner{gw: gw, model: model, timeout: timeout}
}

// RunStage はステージを1回実行します。ゲートウェイ呼び出しの失敗は
// *TransportError、応答の構造不正は *ValidationError として返します。
func RunStage[In, Out any](ctx context.Context, r *StageRunner, st Stage[In, Out], in In) (Out, error) {
	var out Out

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req := gateway.TextRequest{
		Model:  r.model,
		Prompt: st.Prompt(in),
		Schema: st.Schema,
	}
	if st.Media != nil {
		req.VideoURL = st.Media(in)
	}

	raw, err := r.gw.GenerateJSON(ctx, req)
	if err != nil {
		return out, transportErr(st.Name, err)
	}

	if err := json.Unmarshal(stripFences(raw), &out); err != nil {
		return out, validationErr(st.Name, "response is not valid JSON: %v", err)
	}
	if st.Validate != nil {
		if err := st.Validate(out); err != nil {
			return out, validationErr(st.Name, "%v", err)
		}
	}
	return out, nil
}

// stripFences はモデルが応答を markdown のコードフェンスで包んだ場合に
// それを剥がします。
func stripFences(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return trimmed
	}
	if idx := bytes.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte("```"))
	return bytes.TrimSpace(trimmed)
}
