package corpus

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/segment"
)

// Segment hash field names.
const (
	fieldLang      = "lang"
	fieldWorkRef   = "work_ref"
	fieldTextNFC   = "text_nfc"
	fieldFolded    = "folded"
	fieldTriCount  = "tri_count"
	fieldEmbedding = "embedding"
)

// Key layout under domain.KeyPrefix.
const (
	segKeyPrefix = domain.KeyPrefix + "seg:"
	triKeyPrefix = domain.KeyPrefix + "tri:"

	// IndexName is the FT vector index over segment hashes.
	IndexName = domain.KeyPrefix + "seg:idx"
	// embCountKey counts segments ingested with a non-nil embedding.
	embCountKey = domain.KeyPrefix + "emb_count"
	// seqKey is the segment id sequence.
	seqKey = domain.KeyPrefix + "seg_seq"
)

func segKey(id int64) string {
	return segKeyPrefix + strconv.FormatInt(id, 10)
}

func triKey(language, tri string) string {
	return triKeyPrefix + language + ":" + tri
}

func segIDFromKey(key string) (int64, error) {
	raw := strings.TrimPrefix(key, segKeyPrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse segment id from key %q: %w", key, err)
	}
	return id, nil
}

// segmentToFields flattens a segment into hash fields for HSET.
func segmentToFields(seg *segment.Segment) map[string]string {
	fields := map[string]string{
		fieldLang:     seg.Language(),
		fieldWorkRef:  seg.WorkRef(),
		fieldTextNFC:  seg.TextNFC(),
		fieldFolded:   seg.Folded(),
		fieldTriCount: strconv.Itoa(seg.TrigramCount()),
	}
	if seg.HasEmbedding() {
		fields[fieldEmbedding] = string(vectorToBytes(seg.Embedding()))
	}
	return fields
}

// segmentFromFields rebuilds a segment from hash fields.
func segmentFromFields(id int64, fields map[string]string) (segment.Segment, error) {
	if len(fields) == 0 {
		return segment.Segment{}, domain.ErrSegmentNotFound
	}

	triCount := 0
	if raw, ok := fields[fieldTriCount]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return segment.Segment{}, fmt.Errorf("parse tri_count for segment %d: %w", id, err)
		}
		triCount = n
	}

	var embedding []float32
	if raw, ok := fields[fieldEmbedding]; ok && raw != "" {
		vec, err := bytesToVector([]byte(raw))
		if err != nil {
			return segment.Segment{}, fmt.Errorf("parse embedding for segment %d: %w", id, err)
		}
		embedding = vec
	}

	return segment.Reconstruct(
		id,
		fields[fieldLang],
		fields[fieldWorkRef],
		fields[fieldTextNFC],
		fields[fieldFolded],
		triCount,
		embedding,
	), nil
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
