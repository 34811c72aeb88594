package trigram

import (
	"reflect"
	"testing"
)

func TestExtract_SingleWord(t *testing.T) {
	got := Extract("cat")
	want := []string{"  c", " ca", "at ", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract(\"cat\") = %v, want %v", got, want)
	}
}

func TestExtract_Deduplicates(t *testing.T) {
	got := Extract("cat cat")
	want := []string{"  c", " ca", "at ", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("duplicate words must not duplicate trigrams: %v", got)
	}
}

func TestExtract_Empty(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Errorf("expected no trigrams for empty input, got %v", got)
	}
	if got := Extract("   ,.;  "); len(got) != 0 {
		t.Errorf("expected no trigrams for punctuation-only input, got %v", got)
	}
}

func TestExtract_Greek(t *testing.T) {
	got := Extract("μηνιν")
	// 2 leading + 1 trailing pad over 5 runes → 6 trigrams
	if len(got) != 6 {
		t.Fatalf("expected 6 trigrams, got %d: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("trigrams not sorted: %v", got)
		}
	}
}

func TestSimilarity_Identical(t *testing.T) {
	a := Extract("μηνιν")
	if sim := Similarity(a, a); sim != 1.0 {
		t.Errorf("identical sets must score 1.0, got %g", sim)
	}
}

func TestSimilarity_Disjoint(t *testing.T) {
	a := Extract("μηνιν")
	b := Extract("xyzzy")
	if sim := Similarity(a, b); sim != 0 {
		t.Errorf("disjoint sets must score 0, got %g", sim)
	}
}

func TestSimilarity_Empty(t *testing.T) {
	if sim := Similarity(nil, Extract("cat")); sim != 0 {
		t.Errorf("empty set must score 0, got %g", sim)
	}
}

func TestSimilarity_Partial(t *testing.T) {
	a := Extract("μηνιν")
	b := Extract("μηνιν αειδε")
	sim := Similarity(a, b)
	if sim <= 0 || sim >= 1 {
		t.Errorf("partial overlap must score in (0,1), got %g", sim)
	}
}

func TestSimilarityFromCounts(t *testing.T) {
	tests := []struct {
		shared, lenA, lenB int
		want               float64
	}{
		{6, 6, 6, 1.0},
		{0, 6, 6, 0},
		{3, 6, 6, 1.0 / 3.0},
		{0, 0, 0, 0},
	}
	for _, tc := range tests {
		if got := SimilarityFromCounts(tc.shared, tc.lenA, tc.lenB); got != tc.want {
			t.Errorf("SimilarityFromCounts(%d,%d,%d) = %g, want %g",
				tc.shared, tc.lenA, tc.lenB, got, tc.want)
		}
	}
}

func TestSimilarity_MatchesCountForm(t *testing.T) {
	a := Extract("arma virumque cano")
	b := Extract("arma virumque")
	direct := Similarity(a, b)
	shared := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			shared++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	byCounts := SimilarityFromCounts(shared, len(a), len(b))
	if direct != byCounts {
		t.Errorf("similarity forms disagree: %g vs %g", direct, byCounts)
	}
}
