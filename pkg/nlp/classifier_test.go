package nlp

import (
	"testing"

	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

func TestClassifierRuleOrderWins(t *testing.T) {
	classifier := NewClassifier(DefaultClassifierRules())

	// Contains both an SGK keyword and a prescription keyword; the
	// first rule in declaration order decides.
	result := classifier.Classify("SGK cihaz başvurusu için reçete eklendi")
	if result.Type != models.DocTypeSGKDeviceReport {
		t.Fatalf("expected %s, got %s", models.DocTypeSGKDeviceReport, result.Type)
	}
	if result.Confidence != 0.95 {
		t.Fatalf("expected confidence 0.95, got %v", result.Confidence)
	}
}

func TestClassifierPrescription(t *testing.T) {
	classifier := NewClassifier(DefaultClassifierRules())

	result := classifier.Classify("Reçete: günde iki damla")
	if result.Type != models.DocTypePrescription || result.Confidence != 0.90 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifierEnglishKeywordsAllCaps(t *testing.T) {
	classifier := NewClassifier(DefaultClassifierRules())

	// Upper-cased I must still reach the ASCII keyword "prescription".
	result := classifier.Classify("PRESCRIPTION FOR THE PATIENT")
	if result.Type != models.DocTypePrescription || result.Confidence != 0.90 {
		t.Fatalf("unexpected result: %+v", result)
	}

	result = classifier.Classify("AUDIOMETRY RESULTS ATTACHED")
	if result.Type != models.DocTypeAudiometryReport || result.Confidence != 0.88 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifierTurkishCaseFolding(t *testing.T) {
	classifier := NewClassifier(DefaultClassifierRules())

	// ODYOMETRİ only matches "odyometri" under Turkish folding (İ→i).
	result := classifier.Classify("ODYOMETRİ sonuçları ektedir")
	if result.Type != models.DocTypeAudiometryReport || result.Confidence != 0.88 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestClassifierFallsBackToOther(t *testing.T) {
	classifier := NewClassifier(DefaultClassifierRules())

	result := classifier.Classify("merhaba dünya")
	if result.Type != models.DocTypeOther || result.Confidence != 0.50 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
