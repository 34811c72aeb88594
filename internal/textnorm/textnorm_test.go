package textnorm

import "testing"

func TestFold_Idempotent(t *testing.T) {
	inputs := []string{
		"Μῆνιν ἄειδε θεὰ",
		"ΜΗΝΙΝ",
		"Arma virumque canō",
		"déjà vu",
		"",
		"plain ascii",
	}
	for _, s := range inputs {
		once := Fold(s)
		twice := Fold(once)
		if once != twice {
			t.Errorf("fold not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestFold_CaseAndAccentInvariance(t *testing.T) {
	// Acute, grave, circumflex and breathing marks must all fold away.
	variants := []string{"Μῆνιν", "μηνιν", "ΜΗΝΙΝ", "μήνιν", "μὴνιν"}
	want := Fold(variants[0])
	for _, v := range variants[1:] {
		if got := Fold(v); got != want {
			t.Errorf("Fold(%q) = %q, want %q", v, got, want)
		}
	}
	if want != "μηνιν" {
		t.Errorf("expected fold to bare lowercase, got %q", want)
	}
}

func TestFold_PreservesBaseLetters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ἄειδε", "αειδε"},
		{"θεὰ", "θεα"},
		{"Ἀχιλῆος", "αχιληος"},
		{"canō", "cano"},
		{"élodie", "elodie"},
	}
	for _, tc := range tests {
		if got := Fold(tc.in); got != tc.want {
			t.Errorf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_TrimsAndComposes(t *testing.T) {
	// "ῆ" supplied decomposed (eta + combining perispomeni) must compose under NFC.
	decomposed := "  μῆνιν  "
	nfc, folded := Normalize(decomposed)
	if nfc != "μῆνιν" {
		t.Errorf("expected NFC-composed trimmed text, got %q", nfc)
	}
	if folded != "μηνιν" {
		t.Errorf("expected folded %q, got %q", "μηνιν", folded)
	}
}

func TestNormalize_FoldedIsFunctionOfNFC(t *testing.T) {
	// Same NFC in, same fold out, regardless of the original encoding.
	composed := "μῆνιν"
	decomposed := "μῆνιν"
	nfcA, foldA := Normalize(composed)
	nfcB, foldB := Normalize(decomposed)
	if nfcA != nfcB {
		t.Fatalf("NFC forms differ: %q vs %q", nfcA, nfcB)
	}
	if foldA != foldB {
		t.Errorf("folds differ for identical NFC: %q vs %q", foldA, foldB)
	}
}
