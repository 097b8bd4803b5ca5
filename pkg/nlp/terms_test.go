package nlp

import "testing"

func TestFindTermsTurkishFolding(t *testing.T) {
	dict := DefaultDictionary()
	text := "Hastada İŞİTME KAYBI tespit edildi"

	hits := dict.FindTerms(text)
	if len(hits) != 1 {
		t.Fatalf("expected one hit, got %d: %+v", len(hits), hits)
	}
	if hits[0].Term != "işitme kaybı" || hits[0].Category != "hearing_conditions" {
		t.Fatalf("unexpected hit: %+v", hits[0])
	}
	if text[hits[0].Start:hits[0].End] != "İŞİTME KAYBI" {
		t.Fatalf("offsets point at %q", text[hits[0].Start:hits[0].End])
	}
}

func TestFindTermsEnglishAllCaps(t *testing.T) {
	dict := DefaultDictionary()
	text := "DIAGNOSIS: HEARING LOSS CONFIRMED"

	hits := dict.FindTerms(text)
	found := false
	for _, hit := range hits {
		if hit.Term == "hearing loss" {
			found = true
			if text[hit.Start:hit.End] != "HEARING LOSS" {
				t.Fatalf("offsets point at %q", text[hit.Start:hit.End])
			}
		}
	}
	if !found {
		t.Fatalf("expected a hearing loss hit, got %+v", hits)
	}
}

func TestFindTermsReportsEveryOccurrence(t *testing.T) {
	dict := DefaultDictionary()
	hits := dict.FindTerms("Odyometri planlandı, odyometri tekrarlandı")

	count := 0
	for _, hit := range hits {
		if hit.Term == "odyometri" {
			count++
			if hit.Category != "procedures" {
				t.Fatalf("unexpected category: %+v", hit)
			}
		}
	}
	if count != 2 {
		t.Fatalf("expected two odyometri hits, got %d", count)
	}
}

func TestLoadDictionaryMissingFileFallsBack(t *testing.T) {
	dict, err := LoadDictionary("/nonexistent/terms.yaml")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if len(dict.Categories) == 0 {
		t.Fatal("expected the built-in dictionary as fallback")
	}
}

func TestLoadDictionaryEmptyPathUsesDefault(t *testing.T) {
	dict, err := LoadDictionary("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dict.Categories) != 3 {
		t.Fatalf("expected three built-in categories, got %d", len(dict.Categories))
	}
}
