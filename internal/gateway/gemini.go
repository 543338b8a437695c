package gateway

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient は Gemini API を使った TextGenerator / ImageGenerator の
// 実装です。プロセス起動時に一度だけ構築し、DI で各コンポーネントへ
// 注入します。
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient は API キーから Gemini クライアントを初期化します。
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// GenerateJSON はプロンプト(と任意の動画参照)を送信し、構造化JSON応答の
// 生バイト列を返します。スキーマ適合の最終判定は呼び出し側の責務です。
func (c *GeminiClient) GenerateJSON(ctx context.Context, req TextRequest) ([]byte, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.VideoURL != "" {
		parts = append(parts, genai.NewPartFromURI(req.VideoURL, "video/mp4"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if req.Schema != nil {
		cfg.ResponseSchema = req.Schema.toGenAI()
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, err
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("model %s returned an empty response", req.Model)
	}
	return []byte(text), nil
}

// GenerateImage は画像対応モデルを呼び出し、最初の画像パートを
// data: URI として返します。画像パートが無い応答はエラーです。
func (c *GeminiClient) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return "data:" + part.InlineData.MIMEType + ";base64," + encoded, nil
			}
		}
	}
	return "", fmt.Errorf("model %s returned no image part", model)
}

func (s Schema) toGenAI() *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	for name, p := range s.Properties {
		switch p.Type {
		case TypeStringArray:
			props[name] = &genai.Schema{
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: p.Description,
			}
		default:
			props[name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: p.Description,
			}
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   s.Required,
	}
}
