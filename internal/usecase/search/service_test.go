package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/search/hit"
	"github.com/kailas-cloud/lexikon/internal/domain/search/query"
	"github.com/kailas-cloud/lexikon/internal/domain/search/reason"
	"github.com/kailas-cloud/lexikon/internal/textnorm"
	"github.com/kailas-cloud/lexikon/internal/trigram"
)

// --- Mocks ---

type mockRepo struct {
	lexHits []hit.Hit
	lexErr  error
	knnHits []hit.Hit
	knnErr  error
	cap     domain.VectorCapability

	lexCalled   bool
	knnCalled   bool
	lastFolded  string
	lastLang    string
	lastLimit   int
	lastThresh  float64
	lastVector  []float32
	probeCalled bool
}

func (m *mockRepo) Lexical(
	_ context.Context, folded, lang string, limit int, threshold float64,
) ([]hit.Hit, error) {
	m.lexCalled = true
	m.lastFolded = folded
	m.lastLang = lang
	m.lastLimit = limit
	m.lastThresh = threshold
	return m.lexHits, m.lexErr
}

func (m *mockRepo) KNN(
	_ context.Context, vector []float32, lang string, limit int,
) ([]hit.Hit, error) {
	m.knnCalled = true
	m.lastVector = vector
	m.lastLang = lang
	return m.knnHits, m.knnErr
}

func (m *mockRepo) Capability(_ context.Context) domain.VectorCapability {
	m.probeCalled = true
	return m.cap
}

type mockEmbedder struct {
	vec      []float32
	err      error
	called   bool
	lastText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.called = true
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}

func makeQuery(t *testing.T, text string, useVector *bool) *query.Query {
	t.Helper()
	q, err := query.New(text, "grc", 10, 0.05, useVector)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func boolPtr(b bool) *bool { return &b }

// --- Tests ---

func TestSearch_EmptyQueryShortcut(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{})

	for _, text := range []string{"", "   ", "\t\n"} {
		hits, err := svc.Search(context.Background(), makeQuery(t, text, nil))
		if err != nil {
			t.Fatalf("blank query must not error: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("blank query %q must yield no hits", text)
		}
	}
	if repo.lexCalled {
		t.Error("no channel may run for a blank query")
	}
}

func TestSearch_NormalizesLanguageAndText(t *testing.T) {
	repo := &mockRepo{cap: domain.VectorReady}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	if _, err := svc.Search(context.Background(), makeQuery(t, "  Μῆνιν ", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.lastLang != "grc-cls" {
		t.Errorf("legacy code must normalize: got %q", repo.lastLang)
	}
	if want := textnorm.Fold("Μῆνιν"); repo.lastFolded != want {
		t.Errorf("lexical channel got %q, want folded %q", repo.lastFolded, want)
	}
	// The vector channel embeds the NFC form, not the fold.
	if embed.lastText != "Μῆνιν" {
		t.Errorf("embedder got %q, want trimmed NFC", embed.lastText)
	}
}

func TestSearch_LexicalErrorPropagates(t *testing.T) {
	repo := &mockRepo{lexErr: errors.New("storage down")}
	svc := New(repo, nil)

	if _, err := svc.Search(context.Background(), makeQuery(t, "μῆνιν", nil)); err == nil {
		t.Fatal("lexical channel is load-bearing, its errors must surface")
	}
}

func TestSearch_VectorDisabledByCaller(t *testing.T) {
	repo := &mockRepo{
		lexHits: []hit.Hit{hit.New(1, "Il.1.1", "μῆνιν", 0.9, reason.Lexical)},
		cap:     domain.VectorReady,
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Search(context.Background(), makeQuery(t, "μῆνιν", boolPtr(false)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.called || repo.knnCalled || repo.probeCalled {
		t.Error("use_vector=false must skip the whole vector path")
	}
	if len(hits) != 1 {
		t.Errorf("lexical hits must still return, got %d", len(hits))
	}
}

func TestSearch_VectorDegradeMatchesDisabled(t *testing.T) {
	lex := []hit.Hit{
		hit.New(1, "Il.1.1", "μῆνιν ἄειδε", 0.9, reason.Lexical),
		hit.New(2, "Il.1.2", "οὐλομένην", 0.4, reason.Lexical),
	}

	for _, capability := range []domain.VectorCapability{domain.VectorUnavailable, domain.VectorEmpty} {
		repo := &mockRepo{lexHits: lex, cap: capability}
		embed := &mockEmbedder{vec: []float32{0.1}}
		svc := New(repo, embed)

		enabled, err := svc.Search(context.Background(), makeQuery(t, "μῆνιν", boolPtr(true)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		repoOff := &mockRepo{lexHits: lex, cap: capability}
		svcOff := New(repoOff, embed)
		disabled, err := svcOff.Search(context.Background(), makeQuery(t, "μῆνιν", boolPtr(false)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(enabled) != len(disabled) {
			t.Fatalf("capability %v: degraded vector search must match disabled", capability)
		}
		for i := range enabled {
			if enabled[i].SegmentID() != disabled[i].SegmentID() ||
				enabled[i].Score() != disabled[i].Score() {
				t.Errorf("capability %v: result %d differs", capability, i)
			}
		}
		if repo.knnCalled {
			t.Errorf("capability %v: KNN must not run", capability)
		}
	}
}

func TestSearch_EmbedderErrorAbsorbed(t *testing.T) {
	repo := &mockRepo{
		lexHits: []hit.Hit{hit.New(1, "Il.1.1", "μῆνιν", 0.9, reason.Lexical)},
		cap:     domain.VectorReady,
	}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := New(repo, embed)

	hits, err := svc.Search(context.Background(), makeQuery(t, "μῆνιν", nil))
	if err != nil {
		t.Fatalf("embedder failure must be absorbed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("lexical hits must survive an embedder failure, got %d", len(hits))
	}
	if repo.knnCalled {
		t.Error("KNN must not run without an embedding")
	}
}

func TestSearch_KNNErrorAbsorbed(t *testing.T) {
	repo := &mockRepo{
		lexHits: []hit.Hit{hit.New(1, "Il.1.1", "μῆνιν", 0.9, reason.Lexical)},
		knnErr:  errors.New("ft query failed"),
		cap:     domain.VectorReady,
	}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	hits, err := svc.Search(context.Background(), makeQuery(t, "μῆνιν", nil))
	if err != nil {
		t.Fatalf("knn failure must be absorbed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("expected lexical hit, got %d", len(hits))
	}
}

func TestSearch_NilEmbedderDegrades(t *testing.T) {
	repo := &mockRepo{
		lexHits: []hit.Hit{hit.New(1, "Il.1.1", "μῆνιν", 0.9, reason.Lexical)},
		cap:     domain.VectorReady,
	}
	svc := New(repo, nil)

	hits, err := svc.Search(context.Background(), makeQuery(t, "μῆνιν", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || repo.knnCalled {
		t.Error("nil embedder must degrade the vector channel only")
	}
}

func TestSearch_BlendsBothChannels(t *testing.T) {
	repo := &mockRepo{
		lexHits: []hit.Hit{
			hit.New(1, "Il.1.1", "μῆνιν ἄειδε", 0.9, reason.Lexical),
			hit.New(2, "Il.1.2", "οὐλομένην", 0.2, reason.Lexical),
		},
		knnHits: []hit.Hit{
			hit.New(1, "Il.1.1", "μῆνιν ἄειδε", 0.95, reason.Vector),
			hit.New(3, "Il.1.3", "πολλὰς δ᾽ ἰφθίμους", 0.5, reason.Vector),
		},
		cap: domain.VectorReady,
	}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1, 0.2}})

	hits, err := svc.Search(context.Background(), makeQuery(t, "μῆνιν ἄειδε", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 blended hits, got %d", len(hits))
	}
	if hits[0].SegmentID() != 1 {
		t.Errorf("consensus segment must rank first, got %d", hits[0].SegmentID())
	}
	if !hits[0].Reasons().Has(reason.Lexical | reason.Vector) {
		t.Errorf("consensus hit reasons = %v", hits[0].Reasons().Strings())
	}
}

func TestSearch_EndToEndLexicalScenario(t *testing.T) {
	// Corpus of one segment sharing trigrams with the query; the
	// search must return exactly that segment, lexical-only, score in
	// (0,1].
	nfc, folded := textnorm.Normalize("μῆνιν ἄειδε θεὰ")
	queryFold := textnorm.Fold("Μηνιν")
	sim := trigram.Similarity(trigram.Extract(queryFold), trigram.Extract(folded))
	if sim <= 0.05 {
		t.Fatalf("precondition: similarity %g must clear the floor", sim)
	}

	repo := &mockRepo{
		lexHits: []hit.Hit{hit.New(1, "Il.1.1", nfc, sim, reason.Lexical)},
	}
	svc := New(repo, nil)

	q, err := query.New("Μηνιν", "grc-cls", 5, 0.05, boolPtr(false))
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	hits, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected exactly one hit, got %d", len(hits))
	}
	h := hits[0]
	if h.WorkRef() != "Il.1.1" {
		t.Errorf("work ref = %q", h.WorkRef())
	}
	if got := h.Reasons().Strings(); len(got) != 1 || got[0] != "lexical" {
		t.Errorf("reasons = %v, want [lexical]", got)
	}
	if h.Score() <= 0 || h.Score() > 1 {
		t.Errorf("score %g outside (0,1]", h.Score())
	}
}

func TestSearch_ZeroLimitYieldsNoHits(t *testing.T) {
	repo := &mockRepo{
		lexHits: []hit.Hit{
			hit.New(1, "Il.1.1", "μῆνιν ἄειδε", 0.9, reason.Lexical),
			hit.New(2, "Il.1.2", "οὐλομένην", 0.2, reason.Lexical),
		},
	}
	svc := New(repo, nil)

	q, err := query.New("μηνιν", "grc", 0, 0.05, nil)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	if q.Limit() != 0 {
		t.Fatalf("limit 0 must survive construction, got %d", q.Limit())
	}

	hits, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("limit 0 must cap the result at nothing, got %d hits", len(hits))
	}
}
