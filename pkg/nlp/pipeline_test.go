package nlp

import (
	"errors"
	"math"
	"testing"
)

func TestBlankEngineTokensAndSentences(t *testing.T) {
	text := "İşitme kaybı tespit edildi. Cihaz önerildi."
	doc, err := (&blankEngine{}).Analyze(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Tokens) != 8 {
		t.Fatalf("expected eight tokens, got %d: %+v", len(doc.Tokens), doc.Tokens)
	}
	for _, tok := range doc.Tokens {
		if doc.Text[tok.Start:tok.End] != tok.Text {
			t.Fatalf("token offsets point at %q, text is %q", doc.Text[tok.Start:tok.End], tok.Text)
		}
	}

	if len(doc.Sentences) != 2 {
		t.Fatalf("expected two sentences, got %d: %+v", len(doc.Sentences), doc.Sentences)
	}
	if doc.Sentences[1].Text != "Cihaz önerildi." {
		t.Fatalf("unexpected second sentence: %q", doc.Sentences[1].Text)
	}
	for _, sent := range doc.Sentences {
		if doc.Text[sent.Start:sent.End] != sent.Text {
			t.Fatalf("sentence offsets point at %q", doc.Text[sent.Start:sent.End])
		}
	}
}

func TestBlankEngineEmptyInput(t *testing.T) {
	doc, err := (&blankEngine{}).Analyze("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Tokens == nil || doc.Sentences == nil || doc.Entities == nil {
		t.Fatal("expected non-nil slices for empty input")
	}
	if len(doc.Tokens) != 0 || len(doc.Sentences) != 0 {
		t.Fatalf("expected an empty document, got %+v", doc)
	}
}

func TestBlankPipelineSimilarityUnavailable(t *testing.T) {
	pipeline := &Pipeline{engine: &blankEngine{}, tier: TierBlank}

	_, err := pipeline.Similarity("işitme cihazı", "işitme aleti")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float64{1, 2, 3}, []float64{1, 2, 3}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected 1 for identical vectors, got %v", got)
	}
	if got := cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("expected 0 for orthogonal vectors, got %v", got)
	}
	if got := cosine(nil, nil); got != 0 {
		t.Fatalf("expected 0 for empty vectors, got %v", got)
	}
	if got := cosine([]float64{1}, []float64{1, 2}); got != 0 {
		t.Fatalf("expected 0 for mismatched widths, got %v", got)
	}
}

func TestProseEngineVectorIsLexical(t *testing.T) {
	engine := &proseEngine{lang: "xx"}

	a := engine.Vector("işitme cihazı raporu")
	b := engine.Vector("İŞİTME CİHAZI raporu")
	if got := cosine(a, b); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected case folding to produce identical vectors, got similarity %v", got)
	}

	c := engine.Vector("tamamen farklı bir metin")
	if got := cosine(a, c); got > 0.5 {
		t.Fatalf("expected unrelated texts to score low, got %v", got)
	}
}
