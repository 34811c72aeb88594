package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/lexikon/internal/db"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH, filtered
// by language tag when one is set.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	knnPart := fmt.Sprintf("[KNN %d @embedding $BLOB]", q.K)
	var queryStr string
	if q.Language != "" {
		queryStr = fmt.Sprintf("(@lang:{%s})=>%s", escapeTag(q.Language), knnPart)
	} else {
		queryStr = fmt.Sprintf("*=>%s", knnPart)
	}

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)+1))
		args = append(args, q.ReturnFields...)
		args = append(args, "__embedding_score")
	}

	args = append(args,
		"SORTBY", "__embedding_score",
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(raw)
}

// parseKNNResult converts the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...] (2-stride).
func parseKNNResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		}

		if scoreStr, ok := entry.Fields["__embedding_score"]; ok {
			if dist, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				// cosine distance → similarity, clamped to [0,1]
				entry.Score = max(0, 1.0-dist)
			}
			delete(entry.Fields, "__embedding_score")
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		name, err := fields[i].ToString()
		if err != nil {
			continue
		}
		value, err := fields[i+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// vectorToBytes encodes a float32 vector as a little-endian FLOAT32 blob.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return rueidis.BinaryString(buf)
}

// escapeTag escapes RediSearch tag syntax characters in a language code.
func escapeTag(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ',', '.', '<', '>', '{', '}', '[', ']', '"', '\'', ':', ';',
			'!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '-', '+',
			'=', '~', '|', ' ':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
