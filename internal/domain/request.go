package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// BlogLength は生成するブログ記事のボリューム指定です。
type BlogLength string

// BlogTone は記事の文体指定です。
type BlogTone string

// ContentType は記事の構成タイプです。
type ContentType string

const (
	LengthShort  BlogLength = "short"
	LengthMedium BlogLength = "medium"
	LengthLong   BlogLength = "long"
)

const (
	ToneConversational BlogTone = "conversational"
	ToneProfessional   BlogTone = "professional"
	ToneFormal         BlogTone = "formal"
	ToneCasual         BlogTone = "casual"
	ToneEngaging       BlogTone = "engaging"
	TonePersuasive     BlogTone = "persuasive"
	ToneExpository     BlogTone = "expository"
	ToneNeutral        BlogTone = "neutral"
)

const (
	ContentInformative ContentType = "informative"
	ContentTutorial    ContentType = "tutorial"
	ContentOpinion     ContentType = "opinion"
	ContentSummary     ContentType = "summary"
	ContentNarrative   ContentType = "narrative"
)

var validLengths = map[BlogLength]struct{}{
	LengthShort: {}, LengthMedium: {}, LengthLong: {},
}

var validTones = map[BlogTone]struct{}{
	ToneConversational: {}, ToneProfessional: {}, ToneFormal: {}, ToneCasual: {},
	ToneEngaging: {}, TonePersuasive: {}, ToneExpository: {}, ToneNeutral: {},
}

var validContentTypes = map[ContentType]struct{}{
	ContentInformative: {}, ContentTutorial: {}, ContentOpinion: {},
	ContentSummary: {}, ContentNarrative: {},
}

// GenerateBlogRequest は、クライアントから受け取るブログ生成指示です。
// 受理後は不変として扱い、パイプラインには値渡しします。
type GenerateBlogRequest struct {
	// VideoURL は変換対象の YouTube 動画 URL です。(必須)
	VideoURL string `json:"videoUrl"`
	// Length は記事のボリュームです。省略時は "medium"。
	Length BlogLength `json:"length,omitempty"`
	// Tone は記事の文体です。省略時は "neutral"。
	Tone BlogTone `json:"tone,omitempty"`
	// ContentType は記事の構成タイプです。省略時は "informative"。
	ContentType ContentType `json:"contentType,omitempty"`
	// GenerateImage が true のとき、アイキャッチ画像の生成ブランチを起動します。
	GenerateImage bool `json:"generateImage,omitempty"`
	// AdditionalPrompt はユーザー独自の追加指示です。(任意)
	AdditionalPrompt string `json:"additionalPrompt,omitempty"`
}

// Normalize は省略されたフィールドに既定値を補います。
func (r *GenerateBlogRequest) Normalize() {
	if r.Length == "" {
		r.Length = LengthMedium
	}
	if r.Tone == "" {
		r.Tone = ToneNeutral
	}
	if r.ContentType == "" {
		r.ContentType = ContentInformative
	}
	r.VideoURL = strings.TrimSpace(r.VideoURL)
}

// Validate はリクエストの形を検証します。検証エラーはそのまま 400 相当として
// 呼び出し元に返され、パイプラインには到達しません。
func (r GenerateBlogRequest) Validate() error {
	if r.VideoURL == "" {
		return fmt.Errorf("videoUrl is required")
	}
	u, err := url.Parse(r.VideoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("videoUrl must be a valid http(s) URL: %q", r.VideoURL)
	}
	if _, ok := validLengths[r.Length]; !ok {
		return fmt.Errorf("invalid length: %q", r.Length)
	}
	if _, ok := validTones[r.Tone]; !ok {
		return fmt.Errorf("invalid tone: %q", r.Tone)
	}
	if _, ok := validContentTypes[r.ContentType]; !ok {
		return fmt.Errorf("invalid contentType: %q", r.ContentType)
	}
	return nil
}
