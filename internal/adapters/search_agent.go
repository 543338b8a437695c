package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"yt-blog-web/internal/domain"
	"yt-blog-web/internal/prompts"
	"yt-blog-web/internal/sse"

	"github.com/google/uuid"
)

// ErrTooFewEvents は、エージェントのストリームが期待するイベント数に
// 満たなかったことを示します。呼び出し側ではトランスポート失敗として
// 扱われます。
var ErrTooFewEvents = errors.New("search agent stream returned fewer events than expected")

// 最終応答は2番目のイベントに載るため、最低2イベントを要求します。
const minAgentEvents = 2

const agentUserID = "yt-blog-web"

// SearchAgentClient は ADK 検索エージェントの /run_sse エンドポイントを
// 呼び出す pipeline.SearchTool 実装です。
type SearchAgentClient struct {
	httpClient *http.Client
	baseURL    string
	appName    string
}

// NewSearchAgentClient は検索エージェントクライアントを構築します。
// timeout はトランスポート全体(接続からストリーム完了まで)に適用されます。
func NewSearchAgentClient(baseURL, appName string, timeout time.Duration) *SearchAgentClient {
	return &SearchAgentClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		appName:    appName,
	}
}

// streamRequest は ADK エージェントの実行要求ペイロードです。
type streamRequest struct {
	AppName    string        `json:"app_name"`
	UserID     string        `json:"user_id"`
	SessionID  string        `json:"session_id"`
	NewMessage streamMessage `json:"new_message"`
	Streaming  bool          `json:"streaming"`
}

type streamMessage struct {
	Role  string       `json:"role"`
	Parts []streamPart `json:"parts"`
}

type streamPart struct {
	Text string `json:"text"`
}

// agentEvent は SSE イベントの data ペイロードのうち、必要な部分だけを
// 展開します。
type agentEvent struct {
	Content struct {
		Parts []agentEventPart `json:"parts"`
	} `json:"content"`
}

type agentEventPart struct {
	Text string `json:"text"`
}

// FetchEnrichment は3つの検索語に対するエンリッチ結果を取得します。
func (c *SearchAgentClient) FetchEnrichment(ctx context.Context, terms domain.SearchTermSet) (domain.SearchEnrichment, error) {
	payload := streamRequest{
		AppName:   c.appName,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
		NewMessage: streamMessage{
			Role:  "user",
			Parts: []streamPart{{Text: prompts.EnrichmentQuery(terms)}},
		},
		Streaming: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.SearchEnrichment{}, fmt.Errorf("failed to marshal agent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run_sse", bytes.NewReader(body))
	if err != nil {
		return domain.SearchEnrichment{}, fmt.Errorf("failed to build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SearchEnrichment{}, fmt.Errorf("search agent call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SearchEnrichment{}, fmt.Errorf("search agent returned status %d", resp.StatusCode)
	}

	events, err := sse.NewDecoder(resp.Body).All()
	if err != nil {
		return domain.SearchEnrichment{}, fmt.Errorf("failed to decode agent stream: %w", err)
	}
	if len(events) < minAgentEvents {
		return domain.SearchEnrichment{}, fmt.Errorf("%w: got %d", ErrTooFewEvents, len(events))
	}

	slog.DebugContext(ctx, "Search agent stream decoded", "events", len(events))

	return parseEnrichmentEvent(events[1])
}

// parseEnrichmentEvent は最終イベントから構造化済みのエンリッチ結果を
// 取り出します。
func parseEnrichmentEvent(ev sse.Event) (domain.SearchEnrichment, error) {
	var envelope agentEvent
	if err := json.Unmarshal([]byte(ev.Data), &envelope); err != nil {
		return domain.SearchEnrichment{}, fmt.Errorf("agent event is not valid JSON: %w", err)
	}
	if len(envelope.Content.Parts) == 0 || envelope.Content.Parts[0].Text == "" {
		return domain.SearchEnrichment{}, fmt.Errorf("agent event has no content part")
	}

	var enrichment domain.SearchEnrichment
	if err := json.Unmarshal([]byte(envelope.Content.Parts[0].Text), &enrichment); err != nil {
		return domain.SearchEnrichment{}, fmt.Errorf("agent content is not a valid enrichment object: %w", err)
	}
	return enrichment, nil
}
