package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"

	"yt-blog-web/internal/domain"
	"yt-blog-web/internal/gateway"
)

type fakeSearch struct {
	mu         sync.Mutex
	enrichment domain.SearchEnrichment
	err        error
	gotTerms   domain.SearchTermSet
	called     bool
}

func (f *fakeSearch) FetchEnrichment(_ context.Context, terms domain.SearchTermSet) (domain.SearchEnrichment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = true
	f.gotTerms = terms
	return f.enrichment, f.err
}

type fakeProvider struct {
	name    string
	payload string
	err     error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Generate(context.Context, string) (domain.ImageArtifact, error) {
	if p.err != nil {
		return domain.ImageArtifact{}, p.err
	}
	return domain.ImageArtifact{RawMediaURL: p.payload}, nil
}

type fakeImageStore struct {
	mu        sync.Mutex
	uploads   int
	uploadURL string
	uploadErr error
	verifyErr error
}

func (s *fakeImageStore) Upload(_ context.Context, _ string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.uploadURL, nil
}

func (s *fakeImageStore) Verify(context.Context, string) error { return s.verifyErr }

func (s *fakeImageStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

var (
	validTermsJSON   = `{"searchTerms": ["go generics", "go routines", "go modules"]}`
	validComposeJSON = `{"title": "Learning Go", "content": "A deep dive into Go."}`
	validEnrichment  = domain.SearchEnrichment{Term1: "detail one", Term2: "detail two", Term3: "detail three"}
	validImageB64    = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
)

func textRequest() domain.GenerateBlogRequest {
	req := domain.GenerateBlogRequest{VideoURL: "https://youtu.be/abc"}
	req.Normalize()
	return req
}

func imageRequest() domain.GenerateBlogRequest {
	req := textRequest()
	req.GenerateImage = true
	return req
}

func TestExecuteHappyPathWithoutImage(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	search := &fakeSearch{enrichment: validEnrichment}
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), search, nil)

	result, err := orch.Execute(context.Background(), "user-1", textRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Draft.Title != "Learning Go" {
		t.Errorf("title = %q", result.Draft.Title)
	}
	if result.ImageURL != "" {
		t.Errorf("image URL should be empty when generation is off, got %q", result.ImageURL)
	}
	if !search.called {
		t.Error("search tool was never invoked")
	}
}

func TestExecuteEnrichmentAlignsByPosition(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	search := &fakeSearch{enrichment: validEnrichment}
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), search, nil)

	result, err := orch.Execute(context.Background(), "user-1", textRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTerms := []string{"go generics", "go routines", "go modules"}
	for i, term := range result.Terms.Terms {
		if term != wantTerms[i] {
			t.Errorf("term[%d] = %q, want %q", i, term, wantTerms[i])
		}
	}
	wantValues := []string{"detail one", "detail two", "detail three"}
	for i, v := range result.Enriched.Values() {
		if v != wantValues[i] {
			t.Errorf("enrichment[%d] = %q, want %q", i, v, wantValues[i])
		}
	}
	if len(search.gotTerms.Terms) != domain.SearchTermCount {
		t.Errorf("search tool received %d terms", len(search.gotTerms.Terms))
	}
}

func TestExecuteFailsOnWrongTermCount(t *testing.T) {
	gw := scriptedGateway("summary text", `{"searchTerms": ["only", "two"]}`, validComposeJSON)
	search := &fakeSearch{enrichment: validEnrichment}
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), search, nil)

	_, err := orch.Execute(context.Background(), "user-1", textRequest())

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if validation.Stage != stageSearchTerms {
		t.Errorf("stage = %q, want %q", validation.Stage, stageSearchTerms)
	}
	if search.called {
		t.Error("search tool should not run after a failed term extraction")
	}
}

func TestExecuteFailsOnIncompleteDraft(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, `{"title": "Learning Go", "content": ""}`)
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), &fakeSearch{enrichment: validEnrichment}, nil)

	result, err := orch.Execute(context.Background(), "user-1", textRequest())

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if validation.Stage != stageCompose {
		t.Errorf("stage = %q, want %q", validation.Stage, stageCompose)
	}
	if result != nil {
		t.Error("failed execution must not return a partial result")
	}
}

func TestExecuteFailsOnEnrichmentTransport(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	search := &fakeSearch{err: errors.New("agent unreachable")}
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), search, nil)

	_, err := orch.Execute(context.Background(), "user-1", textRequest())

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transport.Stage != stageEnrich {
		t.Errorf("stage = %q, want %q", transport.Stage, stageEnrich)
	}
}

func TestExecuteFailsOnPartialEnrichment(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	search := &fakeSearch{enrichment: domain.SearchEnrichment{Term1: "only one"}}
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), search, nil)

	_, err := orch.Execute(context.Background(), "user-1", textRequest())

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if validation.Stage != stageEnrich {
		t.Errorf("stage = %q, want %q", validation.Stage, stageEnrich)
	}
}

func TestExecuteImageFailureDoesNotFailRun(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	store := &fakeImageStore{uploadURL: "https://storage.googleapis.com/b/img.png"}
	branch := NewImageBranch([]ImageProvider{
		&fakeProvider{name: "primary", err: errors.New("model overloaded")},
		&fakeProvider{name: "fallback", err: errors.New("model overloaded")},
	}, store, 0)
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), &fakeSearch{enrichment: validEnrichment}, branch)

	result, err := orch.Execute(context.Background(), "user-1", imageRequest())
	if err != nil {
		t.Fatalf("image branch failure must not fail the run: %v", err)
	}
	if result.ImageURL != "" {
		t.Errorf("image URL = %q, want empty", result.ImageURL)
	}
	if store.uploadCount() != 0 {
		t.Errorf("upload attempted %d times after all providers failed", store.uploadCount())
	}
}

func TestExecuteMalformedImagePayloadSkipsUpload(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	store := &fakeImageStore{uploadURL: "https://storage.googleapis.com/b/img.png"}
	branch := NewImageBranch([]ImageProvider{
		&fakeProvider{name: "primary", payload: "data:image/png;base64,@@not-base64@@"},
	}, store, 0)
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), &fakeSearch{enrichment: validEnrichment}, branch)

	result, err := orch.Execute(context.Background(), "user-1", imageRequest())
	if err != nil {
		t.Fatalf("malformed payload must degrade to no image: %v", err)
	}
	if result.ImageURL != "" {
		t.Errorf("image URL = %q, want empty", result.ImageURL)
	}
	if store.uploadCount() != 0 {
		t.Errorf("upload must never be attempted for an undecodable payload, got %d", store.uploadCount())
	}
}

func TestExecuteAttachesUploadedImage(t *testing.T) {
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	store := &fakeImageStore{uploadURL: "https://storage.googleapis.com/b/img.png"}
	branch := NewImageBranch([]ImageProvider{
		&fakeProvider{name: "primary", payload: validImageB64},
	}, store, 0)
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), &fakeSearch{enrichment: validEnrichment}, branch)

	result, err := orch.Execute(context.Background(), "user-1", imageRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ImageURL != "https://storage.googleapis.com/b/img.png" {
		t.Errorf("image URL = %q", result.ImageURL)
	}
	if store.uploadCount() != 1 {
		t.Errorf("upload count = %d, want exactly 1", store.uploadCount())
	}
}

func TestExecuteStageOrdering(t *testing.T) {
	// 各ステージは先行ステージの成果に依存するため、呼び出し順は固定です。
	gw := scriptedGateway("summary text", validTermsJSON, validComposeJSON)
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), &fakeSearch{enrichment: validEnrichment}, nil)

	if _, err := orch.Execute(context.Background(), "user-1", textRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{stageSummarize, stageSearchTerms, stageCompose}
	got := gw.stageNames()
	if len(got) != len(want) {
		t.Fatalf("gateway calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExecuteSummarizeFailureSkipsEverything(t *testing.T) {
	gw := &fakeGateway{respond: func(gateway.TextRequest) ([]byte, error) {
		return nil, fmt.Errorf("video not found")
	}}
	search := &fakeSearch{enrichment: validEnrichment}
	orch := NewOrchestrator(NewStageRunner(gw, "m", 0), search, nil)

	_, err := orch.Execute(context.Background(), "user-1", textRequest())

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if transport.Stage != stageSummarize {
		t.Errorf("stage = %q, want %q", transport.Stage, stageSummarize)
	}
	if search.called {
		t.Error("search tool must not run when summarize fails")
	}
}
