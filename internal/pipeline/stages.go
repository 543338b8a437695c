package pipeline

import (
	"fmt"

	"yt-blog-web/internal/domain"
	"yt-blog-web/internal/gateway"
	"yt-blog-web/internal/prompts"
)

// ステージ名。失敗理由とログに現れます。
const (
	stageSummarize   = "summarize"
	stageSearchTerms = "search-terms"
	stageEnrich      = "enrich"
	stageCompose     = "compose"
	stageImage       = "image"
)

// composeInput はステージ4への入力です。上流3ステージの成果を束ねます。
type composeInput struct {
	req      domain.GenerateBlogRequest
	summary  domain.SummaryArtifact
	terms    domain.SearchTermSet
	enriched domain.SearchEnrichment
}

// summarizeStage は動画参照をメディアとして添付する唯一のステージです。
func summarizeStage() Stage[domain.GenerateBlogRequest, domain.SummaryArtifact] {
	return Stage[domain.GenerateBlogRequest, domain.SummaryArtifact]{
		Name: stageSummarize,
		Prompt: func(req domain.GenerateBlogRequest) string {
			return prompts.SummarizeVideo(req.Length, req.Tone, req.ContentType)
		},
		Media: func(req domain.GenerateBlogRequest) string { return req.VideoURL },
		Schema: &gateway.Schema{
			Properties: map[string]gateway.Property{
				"summary": {Type: gateway.TypeString, Description: "The base blog post derived from the video."},
			},
			Required: []string{"summary"},
		},
		Validate: func(out domain.SummaryArtifact) error {
			if out.Summary == "" {
				return fmt.Errorf("summary is empty")
			}
			return nil
		},
	}
}

func searchTermsStage() Stage[domain.SummaryArtifact, domain.SearchTermSet] {
	return Stage[domain.SummaryArtifact, domain.SearchTermSet]{
		Name: stageSearchTerms,
		Prompt: func(s domain.SummaryArtifact) string {
			return prompts.SearchTerms(s.Summary)
		},
		Schema: &gateway.Schema{
			Properties: map[string]gateway.Property{
				"searchTerms": {Type: gateway.TypeStringArray, Description: "Exactly three search-ready terms."},
			},
			Required: []string{"searchTerms"},
		},
		Validate: func(out domain.SearchTermSet) error {
			if !out.Valid() {
				return fmt.Errorf("expected exactly %d non-empty search terms, got %d", domain.SearchTermCount, len(out.Terms))
			}
			return nil
		},
	}
}

func composeStage() Stage[composeInput, domain.BlogDraft] {
	return Stage[composeInput, domain.BlogDraft]{
		Name: stageCompose,
		Prompt: func(in composeInput) string {
			return prompts.Compose(in.req, in.summary, in.terms, in.enriched)
		},
		Schema: &gateway.Schema{
			Properties: map[string]gateway.Property{
				"title":   {Type: gateway.TypeString, Description: "The title of the post."},
				"content": {Type: gateway.TypeString, Description: "The content of the post."},
			},
			Required: []string{"title", "content"},
		},
		Validate: func(out domain.BlogDraft) error {
			// title と content の両方が揃わない限り下書きとして成立しません。
			if !out.Valid() {
				return fmt.Errorf("draft must contain both title and content")
			}
			return nil
		},
	}
}
