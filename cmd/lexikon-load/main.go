// Corpus ingest pipeline for lexikon. Reads JSONL segment files and loads
// them through the lexikon SDK with a worker pool and a request rate cap.
//
// Usage:
//
//	lexikon-load -input corpus/iliad.jsonl -lang grc -workers 4 -rate 50
//
// Env vars (also read from .env when present):
//
//	REDIS_ADDR       — Redis address (default: localhost:6379)
//	REDIS_PASSWORD   — Redis password
//	EMBEDDING_API_KEY — API key for the embedding provider (enables -embed)
//	EMBEDDING_BASE_URL, EMBEDDING_MODEL, EMBEDDING_DIMENSIONS
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/lexikon/internal/domain"
	openaiEmb "github.com/kailas-cloud/lexikon/internal/transport/openai"
	lexikon "github.com/kailas-cloud/lexikon/pkg/sdk"
)

func main() {
	// Missing .env is fine, env vars may come from the shell.
	_ = godotenv.Load()

	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		log.Fatal(err)
	}
}

type config struct {
	input    string
	language string
	workers  int
	ratePerS float64
	embed    bool
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.input, "input", "", "JSONL corpus file (required)")
	flag.StringVar(&cfg.language, "lang", "", "language code override for records without one")
	flag.IntVar(&cfg.workers, "workers", 4, "number of parallel ingest workers")
	flag.Float64Var(&cfg.ratePerS, "rate", 50, "max segments per second (0=unlimited)")
	flag.BoolVar(&cfg.embed, "embed", false, "request embeddings for each segment")
	flag.Parse()

	if cfg.input == "" {
		flag.Usage()
		os.Exit(2)
	}
	return cfg
}

// record is one JSONL corpus line.
type record struct {
	Language string `json:"language"`
	WorkRef  string `json:"work_ref"`
	Text     string `json:"text"`
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.embed {
		if err := client.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}

	var processed, failed atomic.Int64
	records := make(chan record, cfg.workers*2)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.ratePerS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ratePerS), 1)
	}

	var wg sync.WaitGroup
	for i := 0; i < cfg.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			segments := client.Segments()
			for rec := range records {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				_, err := segments.Ingest(ctx, lexikon.Segment{
					Language: rec.Language,
					WorkRef:  rec.WorkRef,
					Text:     rec.Text,
					Embed:    cfg.embed,
				})
				if err != nil {
					failed.Add(1)
					log.Printf("ingest %s: %v", rec.WorkRef, err)
					continue
				}
				n := processed.Add(1)
				if n%500 == 0 {
					log.Printf("progress: %d segments", n)
				}
			}
		}()
	}

	readErr := readJSONL(ctx, cfg, records)
	close(records)
	wg.Wait()

	elapsed := time.Since(start)
	log.Printf("DONE in %s", elapsed.Round(time.Second))
	log.Printf("  segments: %d ingested, %d failed", processed.Load(), failed.Load())
	if sec := elapsed.Seconds(); sec > 0 {
		log.Printf("  rate: %.0f rows/sec", float64(processed.Load())/sec)
	}

	if readErr != nil {
		return readErr
	}
	if failed.Load() > 0 {
		return fmt.Errorf("%d segments failed", failed.Load())
	}
	return nil
}

// readJSONL streams records from the input file into the channel.
// Blank lines are skipped, a malformed line aborts the load.
func readJSONL(ctx context.Context, cfg config, out chan<- record) error {
	f, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if rec.Language == "" {
			rec.Language = cfg.language
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sc.Err()
}

func connect(ctx context.Context, cfg config) (*lexikon.Client, error) {
	addr := env("REDIS_ADDR", "localhost:6379")
	password := env("REDIS_PASSWORD", "")

	opts := []lexikon.Option{lexikon.WithRedis(addr, password)}

	if cfg.embed {
		apiKey := os.Getenv("EMBEDDING_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("-embed requires EMBEDDING_API_KEY")
		}
		defaults := domain.DefaultVectorConfig()
		dims := envInt("EMBEDDING_DIMENSIONS", defaults.Dimensions)
		embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     apiKey,
			BaseURL:    os.Getenv("EMBEDDING_BASE_URL"),
			Model:      env("EMBEDDING_MODEL", defaults.Model),
			Dimensions: dims,
			Provider:   "loader",
		})
		opts = append(opts,
			lexikon.WithEmbedder(embedderAdapter{embedder}),
			lexikon.WithVectorDimensions(dims),
		)
	}

	client, err := lexikon.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("lexikon connect: %w", err)
	}
	return client, nil
}

// embedderAdapter exposes the internal embedder through the SDK interface.
type embedderAdapter struct {
	inner domain.Embedder
}

func (a embedderAdapter) Embed(ctx context.Context, text string) (lexikon.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return lexikon.EmbeddingResult{}, err
	}
	return lexikon.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
