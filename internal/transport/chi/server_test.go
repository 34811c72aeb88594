package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/search/hit"
	"github.com/kailas-cloud/lexikon/internal/domain/search/query"
	"github.com/kailas-cloud/lexikon/internal/domain/search/reason"
	"github.com/kailas-cloud/lexikon/internal/domain/segment"
	"github.com/kailas-cloud/lexikon/internal/textnorm"
	"github.com/kailas-cloud/lexikon/internal/trigram"
	healthuc "github.com/kailas-cloud/lexikon/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/lexikon/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/lexikon/internal/usecase/search"
)

// --- Fakes behind the usecases ---

type fakeSearchRepo struct {
	lexHits []hit.Hit
	lexErr  error

	lastLimit  int
	lastThresh float64
}

func (f *fakeSearchRepo) Lexical(
	_ context.Context, _, _ string, limit int, threshold float64,
) ([]hit.Hit, error) {
	f.lastLimit = limit
	f.lastThresh = threshold
	return f.lexHits, f.lexErr
}

func (f *fakeSearchRepo) KNN(_ context.Context, _ []float32, _ string, _ int) ([]hit.Hit, error) {
	return nil, nil
}

func (f *fakeSearchRepo) Capability(_ context.Context) domain.VectorCapability {
	return domain.VectorUnavailable
}

type fakeIngestRepo struct {
	nextID int64
	stored map[int64]segment.Segment
}

func (f *fakeIngestRepo) NextID(_ context.Context) (int64, error) {
	f.nextID++
	return f.nextID, nil
}

func (f *fakeIngestRepo) Put(_ context.Context, seg *segment.Segment) error {
	if f.stored == nil {
		f.stored = make(map[int64]segment.Segment)
	}
	f.stored[seg.ID()] = *seg
	return nil
}

func (f *fakeIngestRepo) Get(_ context.Context, id int64) (segment.Segment, error) {
	seg, ok := f.stored[id]
	if !ok {
		return segment.Segment{}, domain.ErrSegmentNotFound
	}
	return seg, nil
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func newTestRouter(searchRepo *fakeSearchRepo, ingestRepo *fakeIngestRepo) http.Handler {
	srv := NewServer(
		searchuc.New(searchRepo, nil),
		ingestuc.New(ingestRepo, nil, 0),
		healthuc.New(&fakePinger{}, nil, nil),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

// --- Tests ---

func TestSearchEndpoint_OK(t *testing.T) {
	repo := &fakeSearchRepo{lexHits: []hit.Hit{
		hit.New(1, "Il.1.1", "μῆνιν ἄειδε θεὰ", 0.8, reason.Lexical),
	}}
	router := newTestRouter(repo, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/search?q=μηνιν&lang=grc-cls", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	item := resp.Items[0]
	if item.WorkRef != "Il.1.1" || item.SegmentID != 1 {
		t.Errorf("unexpected item: %+v", item)
	}
	if len(item.Reasons) != 1 || item.Reasons[0] != "lexical" {
		t.Errorf("reasons = %v", item.Reasons)
	}
	if item.Score != 1.0 {
		t.Errorf("single-channel single hit must blend to 1.0, got %g", item.Score)
	}
}

func TestSearchEndpoint_MissingLanguage(t *testing.T) {
	router := newTestRouter(&fakeSearchRepo{}, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/search?q=arma", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != CodeValidationFailed {
		t.Errorf("code = %s", errResp.Code)
	}
}

func TestSearchEndpoint_BadLimit(t *testing.T) {
	router := newTestRouter(&fakeSearchRepo{}, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/search?q=arma&lang=lat&limit=abc", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSearchEndpoint_StorageError500(t *testing.T) {
	router := newTestRouter(&fakeSearchRepo{lexErr: errors.New("refused")}, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/search?q=arma&lang=lat", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Message != "internal error" {
		t.Errorf("internals must not leak: %q", errResp.Message)
	}
}

func TestSearchEndpoint_EmptyQueryEmptyList(t *testing.T) {
	router := newTestRouter(&fakeSearchRepo{}, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/search?q=&lang=grc-cls", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("blank query must yield empty list, got %d", resp.Total)
	}
}

func TestIngestEndpoint_RoundTrip(t *testing.T) {
	ingestRepo := &fakeIngestRepo{}
	router := newTestRouter(&fakeSearchRepo{}, ingestRepo)

	body := `{"language":"grc","work_ref":"Il.1.1","text":"Μῆνιν ἄειδε θεὰ"}`
	req := httptest.NewRequest("POST", "/v1/segments", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/v1/segments/1" {
		t.Errorf("location = %q", loc)
	}

	var created SegmentResponse
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Language != "grc-cls" {
		t.Errorf("language must normalize, got %q", created.Language)
	}
	if want := textnorm.Fold(created.Text); created.Folded != want {
		t.Errorf("folded = %q, want %q", created.Folded, want)
	}
	if created.TrigramCount != len(trigram.Extract(created.Folded)) {
		t.Errorf("trigram count = %d", created.TrigramCount)
	}

	getReq := httptest.NewRequest("GET", "/v1/segments/1", http.NoBody)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusOK {
		t.Fatalf("get status = %d", getRR.Code)
	}
}

func TestIngestEndpoint_BlankText400(t *testing.T) {
	router := newTestRouter(&fakeSearchRepo{}, &fakeIngestRepo{})

	body := `{"language":"lat","work_ref":"x","text":"   "}`
	req := httptest.NewRequest("POST", "/v1/segments", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetSegment_NotFound(t *testing.T) {
	router := newTestRouter(&fakeSearchRepo{}, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/segments/404", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != CodeSegmentNotFound {
		t.Errorf("code = %s", errResp.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeSearchRepo{}, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected report: %+v", resp)
	}
}

func TestSearchEndpoint_ZeroLimitReturnsEmpty(t *testing.T) {
	repo := &fakeSearchRepo{lexHits: []hit.Hit{
		hit.New(1, "Il.1.1", "μῆνιν ἄειδε θεὰ", 0.8, reason.Lexical),
		hit.New(2, "Il.1.2", "οὐλομένην", 0.3, reason.Lexical),
	}}
	router := newTestRouter(repo, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/search?q=μηνιν&lang=grc-cls&limit=0", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 0 || len(resp.Items) != 0 {
		t.Fatalf("explicit limit=0 must return nothing, got %+v", resp)
	}
}

func TestSearchEndpoint_AbsentLimitTakesDefault(t *testing.T) {
	repo := &fakeSearchRepo{}
	router := newTestRouter(repo, &fakeIngestRepo{})

	req := httptest.NewRequest("GET", "/v1/search?q=μηνιν&lang=grc-cls", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if repo.lastLimit != query.DefaultLimit {
		t.Errorf("absent limit must take the default %d, got %d", query.DefaultLimit, repo.lastLimit)
	}
	if repo.lastThresh != query.DefaultThreshold {
		t.Errorf("absent threshold must take the default %g, got %g", query.DefaultThreshold, repo.lastThresh)
	}
}

func TestSearchEndpoint_ConfiguredLimits(t *testing.T) {
	repo := &fakeSearchRepo{}
	srv := NewServer(
		searchuc.New(repo, nil),
		ingestuc.New(&fakeIngestRepo{}, nil, 0),
		healthuc.New(&fakePinger{}, nil, nil),
		zap.NewNop(),
	).WithSearchLimits(5, 10, 0.2)
	r := chi.NewRouter()
	srv.Routes(r)

	req := httptest.NewRequest("GET", "/v1/search?q=μηνιν&lang=grc-cls", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if repo.lastLimit != 5 || repo.lastThresh != 0.2 {
		t.Errorf("configured defaults not applied: limit=%d threshold=%g", repo.lastLimit, repo.lastThresh)
	}

	req = httptest.NewRequest("GET", "/v1/search?q=μηνιν&lang=grc-cls&limit=50", http.NoBody)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if repo.lastLimit != 10 {
		t.Errorf("limit above the configured max must clamp to 10, got %d", repo.lastLimit)
	}
}
