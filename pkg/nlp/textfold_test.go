package nlp

import "testing"

func TestTurkishLowerDottedAndDotlessI(t *testing.T) {
	got := turkishLower("İSTANBUL IŞIK")
	if got != "istanbul ışık" {
		t.Fatalf("expected Turkish lowercase mapping, got %q", got)
	}
}

func TestMatchLowerCollapsesIFamily(t *testing.T) {
	if got := matchLower("PRESCRIPTION"); got != "prescription" {
		t.Fatalf("expected plain ASCII lowercase, got %q", got)
	}
	if matchLower("HEKİM") != matchLower("HEKIM") {
		t.Fatalf("expected dotted and dotless forms to fold together, got %q and %q",
			matchLower("HEKİM"), matchLower("HEKIM"))
	}
	if matchLower("HEKİM") != "hekim" {
		t.Fatalf("unexpected fold: %q", matchLower("HEKİM"))
	}
}

func TestFoldUpperOffsetMapping(t *testing.T) {
	folded := foldUpper("adı soyadı")
	if folded.Upper != "ADI SOYADI" {
		t.Fatalf("unexpected upper view: %q", folded.Upper)
	}

	// "ı" shrinks from two bytes to one when upper-cased, so byte
	// offsets drift between the two views.
	if got := folded.Orig(0); got != 0 {
		t.Fatalf("expected offset 0 to map to 0, got %d", got)
	}
	if got := folded.Orig(4); got != 5 {
		t.Fatalf("expected upper offset 4 (S) to map to original 5, got %d", got)
	}
}

func TestFoldPositionsFindsAllOccurrences(t *testing.T) {
	text := "İŞİTME kaybı ve işitme KAYBI"
	positions := foldPositions(text, "işitme kaybı")
	if len(positions) != 2 {
		t.Fatalf("expected two occurrences, got %d", len(positions))
	}
	for _, pos := range positions {
		got := turkishLower(text[pos[0]:pos[1]])
		if got != "işitme kaybı" {
			t.Fatalf("offsets point at %q", text[pos[0]:pos[1]])
		}
	}
}
