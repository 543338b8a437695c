// Package prompts は各生成ステージへ渡す指示文を組み立てます。
// 文言はステージの入出力契約(JSONスキーマ)を満たすことだけを保証します。
package prompts

import (
	"fmt"
	"strings"

	"yt-blog-web/internal/domain"
)

// lengthGuides は length 指定ごとの目標語数です。
var lengthGuides = map[domain.BlogLength]string{
	domain.LengthShort:  "250-400 words",
	domain.LengthMedium: "500-800 words",
	domain.LengthLong:   "900+ words",
}

// SummarizeVideo はステージ1: 動画からベースとなるブログ本文を起こす指示文です。
// 動画本体はメディアパートとして別途添付されます。
func SummarizeVideo(length domain.BlogLength, tone domain.BlogTone, contentType domain.ContentType) string {
	var b strings.Builder
	b.WriteString("You are a skilled content creator transforming a YouTube video into a natural, human-written blog post.\n\n")
	fmt.Fprintf(&b, "Blog type: %q. Tone: %q. Target length: %q (%s).\n\n", contentType, tone, length, lengthGuides[length])
	b.WriteString("Write a complete blog post, not a robotic summary. Start with a hook, develop a logical flow, ")
	b.WriteString("and end with a thoughtful conclusion. Integrate the video's key points naturally. ")
	b.WriteString("Never mention \"the video\" or \"the YouTuber\", and strictly meet the target length.\n\n")
	b.WriteString("Output format (must be valid JSON, no markdown fences):\n")
	b.WriteString(`{"summary": "<entire blog post here>"}`)
	return b.String()
}

// SearchTerms はステージ2: 要約からちょうど3つの検索語を抽出する指示文です。
func SearchTerms(summary string) string {
	var b strings.Builder
	b.WriteString("Extract exactly three search-ready terms from the summary below, to gather web context that enriches the final blog:\n")
	b.WriteString("1. the core topic (definition/basics),\n")
	b.WriteString("2. a practical process or technique (examples/tutorials),\n")
	b.WriteString("3. an importance or impact angle (benefits/why it matters).\n\n")
	b.WriteString("All terms must stay within the scope of the summary. Short, precise phrases only — no sentences, ")
	b.WriteString("nothing broad or generic.\n\n")
	b.WriteString("Output format (must be valid JSON, no markdown fences):\n")
	b.WriteString(`{"searchTerms": ["term1", "term2", "term3"]}`)
	fmt.Fprintf(&b, "\n\nInput summary:\n%s", summary)
	return b.String()
}

// Compose はステージ4: ベース本文と検索エンリッチ結果から最終稿を作る指示文です。
func Compose(req domain.GenerateBlogRequest, summary domain.SummaryArtifact, terms domain.SearchTermSet, enriched domain.SearchEnrichment) string {
	var b strings.Builder
	b.WriteString("You are a senior blog editor. Enhance the base blog post below using the curated search insights, ")
	b.WriteString("without rewriting it from scratch. Preserve its tone and structure, add depth and credibility, ")
	fmt.Fprintf(&b, "and enforce the target length %q (%s).\n\n", req.Length, lengthGuides[req.Length])

	fmt.Fprintf(&b, "Base blog:\n%s\n\n", summary.Summary)
	b.WriteString("Search insights (positionally aligned to the extracted terms):\n")
	for i, term := range terms.Terms {
		fmt.Fprintf(&b, "- %q: %s\n", term, enriched.Values()[i])
	}
	fmt.Fprintf(&b, "\nTone: %q. Content type: %q.\n", req.Tone, req.ContentType)
	if req.AdditionalPrompt != "" {
		fmt.Fprintf(&b, "Additional author instructions: %s\n", req.AdditionalPrompt)
	}
	b.WriteString("\nDo not mention \"search results\", \"terms\", \"video\", or \"summary\" in the prose.\n\n")
	b.WriteString("Output format (must be valid JSON, no markdown fences):\n")
	b.WriteString(`{"title": "<post title>", "content": "<final blog post>"}`)
	return b.String()
}

// HeaderImage は画像ブランチ: 記事冒頭に置くバナー画像の指示文です。
func HeaderImage(summary string) string {
	var b strings.Builder
	b.WriteString("Generate a blog header illustration representing the theme and emotional tone of the post below. ")
	b.WriteString("Clean, aesthetic, mobile-friendly; use symbols or metaphors relevant to the topic; ")
	b.WriteString("avoid text in the image. Horizontal banner, 1200x600.\n\n")
	fmt.Fprintf(&b, "Post summary:\n%s", summary)
	return b.String()
}

// EnrichmentQuery は検索エージェントへ渡す検索語ペイロードを整形します。
func EnrichmentQuery(terms domain.SearchTermSet) string {
	return strings.Join(terms.Terms, ", ")
}
