package pipeline

import (
	"context"
	"log/slog"

	"yt-blog-web/internal/domain"
)

// SearchTool は検索エンリッチを担う外部ツールです。3語の検索語に対し、
// 位置対応する3スロットのエンリッチ結果を返します。
type SearchTool interface {
	FetchEnrichment(ctx context.Context, terms domain.SearchTermSet) (domain.SearchEnrichment, error)
}

// Orchestrator は5ステージの生成パイプラインを実行します。
//
//	SUMMARIZE → [SEARCH_TERMS → ENRICH → COMPOSE] ∥ [IMAGE] → JOIN
//
// テキスト系ステージの失敗は実行全体を中断し、画像ブランチの失敗は
// 「画像なし」へ吸収されます。ステージは先行ステージの解決後に
// 実行され、画像ブランチだけが SUMMARIZE 直後に並行起動されます。
type Orchestrator struct {
	runner *StageRunner
	search SearchTool
	image  *ImageBranch
}

// NewOrchestrator は依存を注入して Orchestrator を構築します。
func NewOrchestrator(runner *StageRunner, search SearchTool, image *ImageBranch) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		search: search,
		image:  image,
	}
}

// Execute はパイプラインを1回実行します。戻り値のエラーは
// *TransportError または *ValidationError で、どのステージで失敗しても
// 部分的な成果は返しません。
func (o *Orchestrator) Execute(ctx context.Context, ownerID string, req domain.GenerateBlogRequest) (*domain.GenerationResult, error) {
	slog.InfoContext(ctx, "Pipeline execution started",
		"video_url", req.VideoURL,
		"length", req.Length,
		"tone", req.Tone,
		"content_type", req.ContentType,
		"generate_image", req.GenerateImage,
	)

	// --- STEP 1: 動画要約 (失敗は常に致命) ---
	summary, err := RunStage(ctx, o.runner, summarizeStage(), req)
	if err != nil {
		return nil, err
	}

	// --- フォーク: 画像ブランチを先に起動し、テキスト系と並行させます ---
	// バッファ付きチャネルなので、テキスト側が先に失敗して戻っても
	// ゴルーチンは残りません。
	var imageCh chan string
	if req.GenerateImage && o.image != nil {
		imageCh = make(chan string, 1)
		go func() {
			imageCh <- o.image.Run(ctx, ownerID, summary.Summary)
		}()
	}

	// --- STEP 2: 検索語抽出 (ちょうど3語でなければ致命) ---
	terms, err := RunStage(ctx, o.runner, searchTermsStage(), summary)
	if err != nil {
		return nil, err
	}

	// --- STEP 3: 検索エンリッチ (失敗は致命。要約だけで構成へ進む
	// フォールバックは意図的に持ちません) ---
	enriched, err := o.enrich(ctx, terms)
	if err != nil {
		return nil, err
	}

	// --- STEP 4: 最終構成 ---
	draft, err := RunStage(ctx, o.runner, composeStage(), composeInput{
		req:      req,
		summary:  summary,
		terms:    terms,
		enriched: enriched,
	})
	if err != nil {
		return nil, err
	}

	// --- JOIN: テキスト側の成功は必須、画像側の失敗は黙って吸収 ---
	imageURL := ""
	if imageCh != nil {
		imageURL = <-imageCh
	}

	slog.InfoContext(ctx, "Pipeline execution completed",
		"title", draft.Title,
		"has_image", imageURL != "",
	)

	return &domain.GenerationResult{
		Draft:    draft,
		Summary:  summary,
		Terms:    terms,
		Enriched: enriched,
		ImageURL: imageURL,
	}, nil
}

// enrich は検索ツールを呼び出し、3スロットすべての非空性を検証します。
func (o *Orchestrator) enrich(ctx context.Context, terms domain.SearchTermSet) (domain.SearchEnrichment, error) {
	enriched, err := o.search.FetchEnrichment(ctx, terms)
	if err != nil {
		return domain.SearchEnrichment{}, transportErr(stageEnrich, err)
	}
	if !enriched.Valid() {
		return domain.SearchEnrichment{}, validationErr(stageEnrich, "enrichment must fill all %d slots", domain.SearchTermCount)
	}
	return enriched, nil
}
