package lexikon

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	embedder Embedder

	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCredentials sets the Redis username and logical database.
func WithCredentials(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithEmbedder sets the text embedding provider. Without one the
// vector channel degrades to empty and ingestion is lexical-only.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithVectorDimensions sets the embedding dimension for the segment
// index. Defaults to 1024 (Qwen3-Embedding-8B).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
