package nlp

import (
	"strings"
	"testing"

	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

func tokenized(t *testing.T, text string) *models.Document {
	t.Helper()
	doc, err := (&blankEngine{}).Analyze(text)
	if err != nil {
		t.Fatalf("failed to tokenize: %v", err)
	}
	return doc
}

func TestMatcherFindsMedicalPatterns(t *testing.T) {
	text := "Hastanın işitme cihazı için SGK raporu. TC 12345678901. Tanı: işitme kaybı."
	doc := tokenized(t, text)

	spans := NewMatcher().Match(doc)
	if len(spans) != 3 {
		t.Fatalf("expected three spans, got %d: %+v", len(spans), spans)
	}

	if spans[0].Label != models.LabelMedicalDevice || spans[0].Text != "işitme cihazı" {
		t.Fatalf("unexpected first span: %+v", spans[0])
	}
	if spans[1].Label != models.LabelTCNumber || spans[1].Text != "12345678901" {
		t.Fatalf("unexpected second span: %+v", spans[1])
	}
	if spans[2].Label != models.LabelMedicalCondition || spans[2].Text != "işitme kaybı" {
		t.Fatalf("unexpected third span: %+v", spans[2])
	}

	for _, span := range spans {
		if span.Confidence != 0.9 {
			t.Fatalf("expected confidence 0.9, got %v", span.Confidence)
		}
		if doc.Text[span.Start:span.End] != span.Text {
			t.Fatalf("span offsets point at %q, text is %q", doc.Text[span.Start:span.End], span.Text)
		}
	}
}

func TestMatcherDoctorPattern(t *testing.T) {
	doc := tokenized(t, "Dr. Ayşe kontrol etti.")

	spans := NewMatcher().Match(doc)
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d: %+v", len(spans), spans)
	}
	if spans[0].Label != models.LabelDoctorStaff || spans[0].Text != "Dr. Ayşe" {
		t.Fatalf("unexpected span: %+v", spans[0])
	}
}

func TestMatcherEnglishDeviceAllCaps(t *testing.T) {
	doc := tokenized(t, "FITTED WITH HEARING AID TODAY")

	spans := NewMatcher().Match(doc)
	found := false
	for _, span := range spans {
		if span.Label == models.LabelMedicalDevice && span.Text == "HEARING AID" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MEDICAL_DEVICE span, got %+v", spans)
	}
}

func TestMatcherPatientNameWithFoldedLabel(t *testing.T) {
	// The dotted İ keeps "SOYADİ" identical to "soyadi" under Turkish
	// folding even though it is not the canonical spelling.
	doc := tokenized(t, "HASTA ADI SOYADİ: MEHMET YILMAZ")

	spans := NewMatcher().Match(doc)
	found := false
	for _, span := range spans {
		if span.Label == models.LabelPatientName {
			found = true
			if !strings.HasSuffix(span.Text, "MEHMET") {
				t.Fatalf("expected span to end at the first name token, got %q", span.Text)
			}
		}
	}
	if !found {
		t.Fatal("expected a PATIENT_NAME span")
	}
}
