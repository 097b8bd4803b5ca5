package nlp

import (
	"testing"

	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

func extractName(t *testing.T, text string) *models.PatientNameResult {
	t.Helper()
	extractor := NewPatientNameExtractor(NewMatcher())
	return extractor.Extract(tokenized(t, text))
}

func TestExtractPatientNameUppercase(t *testing.T) {
	text := "HASTA ADI SOYADI: ONUR AYDOĞDU, 1985 doğumlu."

	result := extractName(t, text)
	if result == nil {
		t.Fatal("expected a patient name")
	}
	if result.Name != "Onur Aydoğdu" {
		t.Fatalf("expected normalized name, got %q", result.Name)
	}
	if result.Confidence != 0.9 || result.Method != models.MethodPatternMatching {
		t.Fatalf("unexpected result: %+v", result)
	}
	if text[result.Start:result.End] != "ONUR AYDOĞDU" {
		t.Fatalf("offsets point at %q", text[result.Start:result.End])
	}
}

func TestExtractPatientNameMixedCase(t *testing.T) {
	text := "Hasta Adı Soyadı: Ayşe Yılmaz, kontrol randevusu."

	result := extractName(t, text)
	if result == nil {
		t.Fatal("expected a patient name")
	}
	if result.Name != "Ayşe Yılmaz" {
		t.Fatalf("expected %q, got %q", "Ayşe Yılmaz", result.Name)
	}

	// The upper-cased view shifts byte offsets (ı is two bytes, I is
	// one); the reported span must still index the original text.
	if text[result.Start:result.End] != "Ayşe Yılmaz" {
		t.Fatalf("offsets point at %q", text[result.Start:result.End])
	}
}

func TestExtractPatientNameExclusions(t *testing.T) {
	// The excluded full name never survives the cascade; the token
	// pattern fallback stops at the first name token instead.
	result := extractName(t, "HASTA ADI SOYADI: ÜMİT KANAY, rapor ektedir.")
	if result == nil {
		t.Fatal("expected a fallback candidate")
	}
	if result.Name == "Ümit Kanay" {
		t.Fatal("excluded name leaked through")
	}
	if result.Name != "Ümit" || result.Method != models.MethodModelMatching {
		t.Fatalf("unexpected fallback result: %+v", result)
	}
}

func TestExtractPatientNameExcludesStaffTitle(t *testing.T) {
	// "Hekim" upper-cases to HEKİM; the exclusion entry HEKIM must
	// still catch it, so only the token fallback's single-token
	// candidate survives.
	result := extractName(t, "Hasta Adı Soyadı: Hekim Bey")
	if result == nil {
		t.Fatal("expected a fallback candidate")
	}
	if result.Name == "Hekim Bey" {
		t.Fatal("staff candidate leaked through the exclusion list")
	}
	if result.Name != "Hekim" || result.Method != models.MethodModelMatching {
		t.Fatalf("unexpected fallback result: %+v", result)
	}
}

func TestExtractPatientNameTokenFallback(t *testing.T) {
	// SOYADİ defeats every regex variant but folds to "soyadi" at the
	// token level, so the pattern cascade still finds the name.
	result := extractName(t, "HASTA ADI SOYADİ: MEHMET YILMAZ")
	if result == nil {
		t.Fatal("expected a fallback candidate")
	}
	if result.Name != "Mehmet" {
		t.Fatalf("expected %q, got %q", "Mehmet", result.Name)
	}
	if result.Confidence != 0.8 || result.Method != models.MethodModelMatching {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExtractPatientNameAbsent(t *testing.T) {
	if result := extractName(t, "Bugün hava güzel."); result != nil {
		t.Fatalf("expected no name, got %+v", result)
	}
}

func TestExtractPatientNameTooShort(t *testing.T) {
	// Candidates under four runes are noise, not names.
	if result := extractName(t, "HASTA ADI: ON, devam."); result != nil {
		t.Fatalf("expected no name, got %+v", result)
	}
}
