package domain

import "strings"

// SearchTermCount は検索語ステージが常に返すべき語数です。
// エンリッチ結果とは位置で対応づけられるため、この数は固定です。
const SearchTermCount = 3

// SummaryArtifact はステージ1(動画要約)の出力です。
type SummaryArtifact struct {
	Summary string `json:"summary"`
}

// SearchTermSet はステージ2(検索語抽出)の出力で、常にちょうど3語を持ちます。
type SearchTermSet struct {
	Terms []string `json:"searchTerms"`
}

// Valid は語数と各語の非空性を確認します。
func (s SearchTermSet) Valid() bool {
	if len(s.Terms) != SearchTermCount {
		return false
	}
	for _, t := range s.Terms {
		if strings.TrimSpace(t) == "" {
			return false
		}
	}
	return true
}

// SearchEnrichment はステージ3(検索エンリッチ)の出力です。
// Term1..Term3 は SearchTermSet.Terms と位置で対応します。キー名ではなく
// インデックスが対応関係を決めます。
type SearchEnrichment struct {
	Term1 string `json:"term1"`
	Term2 string `json:"term2"`
	Term3 string `json:"term3"`
}

// Values は位置順の値スライスを返します。
func (e SearchEnrichment) Values() []string {
	return []string{e.Term1, e.Term2, e.Term3}
}

// Valid は3スロットすべてが非空であることを確認します。
func (e SearchEnrichment) Valid() bool {
	for _, v := range e.Values() {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// BlogDraft はステージ4(最終構成)の出力です。Title と Content の両方が
// 揃っていない限り有効な下書きとは見なされません。
type BlogDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Valid は両フィールドの非空性を確認します。欠けた下書きはステージ失敗で
// あり、部分的成功として扱ってはいけません。
func (d BlogDraft) Valid() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.Content) != ""
}

// ImageArtifact は画像ブランチの出力です。RawMediaURL は base64 エンコード
// された画像データ(data: URI プレフィックスの有無は問わない)を保持します。
// 画像ブランチの不在は正常な結果です。
type ImageArtifact struct {
	RawMediaURL string `json:"url"`
}

// GenerationResult はパイプライン1回分の最終成果です。
type GenerationResult struct {
	Draft    BlogDraft
	Summary  SummaryArtifact
	Terms    SearchTermSet
	Enriched SearchEnrichment
	// ImageURL はアップロード済み画像の公開 URL です。画像が生成されなかった
	// 場合は空のままで、それは失敗ではありません。
	ImageURL string
}
