package nlp

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	prose "github.com/jdkato/prose/v2"

	"github.com/omrozmn/x-ear-nlp/pkg/common/config"
	"github.com/omrozmn/x-ear-nlp/pkg/common/logger"
	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

// TierBlank is the last-resort pipeline: rule-based sentence
// segmentation and tokenization only, no tagging, NER or vectors.
const TierBlank = "blank_tr"

// Confidence assigned to entities coming out of the statistical model,
// which does not expose per-entity scores.
const modelEntityConfidence = 0.8

const lexicalVectorDim = 256

// Capabilities tags what the loaded model tier can do. Recorded at load
// time and consulted before capability-gated operations.
type Capabilities struct {
	POS     bool `json:"pos"`
	NER     bool `json:"ner"`
	Vectors bool `json:"vectors"`
}

type engine interface {
	Analyze(text string) (*models.Document, error)
	// Vector returns a document vector for similarity scoring, nil when
	// the engine has no vector support.
	Vector(text string) []float64
}

type modelTier struct {
	name   string
	method string
	load   func(cfg *config.Config, name string) (engine, Capabilities, error)
}

// Model tiers in preference order. Turkish clinical packages are loaded
// from the configured model directory; the generic tiers ship compiled
// in and act as degraded fallbacks for Turkish text.
var modelTiers = []modelTier{
	{name: "tr_clinical_lg", method: "static_vectors", load: loadClinicalPackage},
	{name: "tr_clinical_md", method: "static_vectors", load: loadClinicalPackage},
	{name: "tr_clinical_sm", method: "static_vectors", load: loadClinicalPackage},
	{name: "xx_wiki_sm", method: "lexical_vectors", load: loadProseEngine},
	{name: "en_generic_sm", method: "lexical_vectors", load: loadProseEngine},
}

// Pipeline wraps the statistical engine behind a fixed interface:
// tokenization, sentence segmentation, NER and document similarity.
// Construction never fails; when no tier loads it degrades to a blank
// Turkish pipeline with segmentation only.
type Pipeline struct {
	engine engine
	caps   Capabilities
	tier   string
	method string
}

func NewPipeline(cfg *config.Config) *Pipeline {
	for _, tier := range modelTiers {
		eng, caps, err := tier.load(cfg, tier.name)
		if err != nil {
			logger.Log.WithError(err).WithField("model", tier.name).Warn("Model tier not available")
			continue
		}
		logger.Log.WithFields(map[string]interface{}{
			"model":   tier.name,
			"ner":     caps.NER,
			"vectors": caps.Vectors,
		}).Info("Loaded language model")
		return &Pipeline{engine: eng, caps: caps, tier: tier.name, method: tier.method}
	}

	logger.Log.Warn("No pretrained model available, using blank Turkish pipeline")
	return &Pipeline{engine: &blankEngine{}, tier: TierBlank}
}

func (p *Pipeline) Tier() string {
	return p.tier
}

func (p *Pipeline) Capabilities() Capabilities {
	return p.caps
}

// Tokenize always produces a usable document: empty input yields zero
// tokens and sentences, and an engine failure degrades to blank
// segmentation for this one document.
func (p *Pipeline) Tokenize(text string) *models.Document {
	doc, err := p.engine.Analyze(text)
	if err != nil {
		logger.Log.WithError(err).Warn("Model analysis failed, degrading to blank segmentation")
		doc, _ = (&blankEngine{}).Analyze(text)
	}
	return doc
}

// Similarity scores two texts with the active tier's vectors. Tiers
// without vector support report ErrModelUnavailable rather than a
// silent zero; with static vectors a fully out-of-vocabulary text also
// scores 0, which callers should treat as "no signal", not "unrelated".
func (p *Pipeline) Similarity(text1, text2 string) (models.SimilarityResult, error) {
	if !p.caps.Vectors {
		return models.SimilarityResult{}, fmt.Errorf("%w: %s has no vectors", ErrModelUnavailable, p.tier)
	}

	doc1 := p.Tokenize(text1)
	doc2 := p.Tokenize(text2)

	return models.SimilarityResult{
		Similarity:  cosine(p.engine.Vector(text1), p.engine.Vector(text2)),
		Text1Tokens: len(doc1.Tokens),
		Text2Tokens: len(doc2.Tokens),
		Method:      p.method,
	}, nil
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// proseEngine backs the compiled-in generic tiers with the prose
// statistical pipeline: tokenization, Penn-tag POS tagging and NER.
// prose carries no lemmatizer, so lemmas fall back to the Turkish
// lowercase form of the token.
type proseEngine struct {
	lang string
}

func loadProseEngine(_ *config.Config, name string) (engine, Capabilities, error) {
	// The model data ships compiled in; a probe document validates the
	// pipeline once at load time.
	if _, err := prose.NewDocument("probe"); err != nil {
		return nil, Capabilities{}, fmt.Errorf("load %s: %w", name, err)
	}
	lang := "xx"
	if strings.HasPrefix(name, "en_") {
		lang = "en"
	}
	return &proseEngine{lang: lang}, Capabilities{POS: true, NER: true, Vectors: true}, nil
}

func (e *proseEngine) Analyze(text string) (*models.Document, error) {
	doc := emptyDocument(text, e.lang)
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}

	pdoc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	cursor := 0
	for _, tok := range pdoc.Tokens() {
		start := indexFrom(text, tok.Text, cursor)
		if start < 0 {
			continue
		}
		end := start + len(tok.Text)
		doc.Tokens = append(doc.Tokens, models.Token{
			Text:  tok.Text,
			POS:   tok.Tag,
			Lemma: turkishLower(tok.Text),
			Start: start,
			End:   end,
		})
		cursor = end
	}

	cursor = 0
	for _, sent := range pdoc.Sentences() {
		start := indexFrom(text, sent.Text, cursor)
		if start < 0 {
			continue
		}
		end := start + len(sent.Text)
		doc.Sentences = append(doc.Sentences, models.Sentence{Text: sent.Text, Start: start, End: end})
		cursor = end
	}

	cursor = 0
	for _, ent := range pdoc.Entities() {
		start := indexFrom(text, ent.Text, cursor)
		if start < 0 {
			continue
		}
		end := start + len(ent.Text)
		doc.Entities = append(doc.Entities, models.EntitySpan{
			Text:       ent.Text,
			Label:      ent.Label,
			Start:      start,
			End:        end,
			Confidence: modelEntityConfidence,
		})
		cursor = end
	}

	return doc, nil
}

// Vector hashes case-folded tokens into a fixed-width bag-of-words
// vector. This is a lexical approximation, not a semantic embedding.
func (e *proseEngine) Vector(text string) []float64 {
	vec := make([]float64, lexicalVectorDim)
	for _, word := range strings.Fields(turkishLower(text)) {
		word = strings.Trim(word, ".,:;!?()\"'")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%lexicalVectorDim]++
	}
	return vec
}

// packageEngine is a Turkish clinical model package: prose tokenization
// and NER plus static word vectors loaded from disk.
type packageEngine struct {
	proseEngine
	vectors map[string][]float64
	dim     int
}

func loadClinicalPackage(cfg *config.Config, name string) (engine, Capabilities, error) {
	if cfg.ModelDir == "" {
		return nil, Capabilities{}, fmt.Errorf("model package %s: no model directory configured", name)
	}
	path := filepath.Join(cfg.ModelDir, name, "vectors.json")
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, Capabilities{}, fmt.Errorf("model package %s: %w", name, err)
	}
	var vectors map[string][]float64
	if err := json.Unmarshal(content, &vectors); err != nil {
		return nil, Capabilities{}, fmt.Errorf("model package %s: %w", name, err)
	}
	if len(vectors) == 0 {
		return nil, Capabilities{}, fmt.Errorf("model package %s: empty vector table", name)
	}
	dim := 0
	for _, v := range vectors {
		dim = len(v)
		break
	}
	if dim == 0 {
		return nil, Capabilities{}, fmt.Errorf("model package %s: zero-width vectors", name)
	}
	return &packageEngine{
		proseEngine: proseEngine{lang: "tr"},
		vectors:     vectors,
		dim:         dim,
	}, Capabilities{POS: true, NER: true, Vectors: true}, nil
}

// Vector averages the static vectors of in-vocabulary words.
func (e *packageEngine) Vector(text string) []float64 {
	vec := make([]float64, e.dim)
	found := 0
	for _, word := range strings.Fields(turkishLower(text)) {
		word = strings.Trim(word, ".,:;!?()\"'")
		v, ok := e.vectors[word]
		if !ok || len(v) != e.dim {
			continue
		}
		for i := range vec {
			vec[i] += v[i]
		}
		found++
	}
	if found > 0 {
		for i := range vec {
			vec[i] /= float64(found)
		}
	}
	return vec
}

// blankEngine segments and tokenizes with plain rules. No POS tags, no
// entities, no vectors.
type blankEngine struct{}

func (e *blankEngine) Analyze(text string) (*models.Document, error) {
	doc := emptyDocument(text, "tr")

	tokenStart := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if tokenStart < 0 {
				tokenStart = i
			}
			continue
		}
		if tokenStart >= 0 {
			appendBlankToken(doc, text, tokenStart, i)
			tokenStart = -1
		}
		if !unicode.IsSpace(r) {
			appendBlankToken(doc, text, i, i+utf8.RuneLen(r))
		}
	}
	if tokenStart >= 0 {
		appendBlankToken(doc, text, tokenStart, len(text))
	}

	sentStart := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			appendBlankSentence(doc, text, sentStart, i+utf8.RuneLen(r))
			sentStart = i + utf8.RuneLen(r)
		}
	}
	appendBlankSentence(doc, text, sentStart, len(text))

	return doc, nil
}

func (e *blankEngine) Vector(string) []float64 {
	return nil
}

func appendBlankToken(doc *models.Document, text string, start, end int) {
	piece := text[start:end]
	doc.Tokens = append(doc.Tokens, models.Token{
		Text:  piece,
		Lemma: turkishLower(piece),
		Start: start,
		End:   end,
	})
}

func appendBlankSentence(doc *models.Document, text string, start, end int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return
	}
	doc.Sentences = append(doc.Sentences, models.Sentence{Text: text[start:end], Start: start, End: end})
}

func emptyDocument(text, lang string) *models.Document {
	return &models.Document{
		Text:      text,
		Language:  lang,
		Tokens:    make([]models.Token, 0),
		Sentences: make([]models.Sentence, 0),
		Entities:  make([]models.EntitySpan, 0),
	}
}

// indexFrom locates sub in text at or after from, falling back to a
// whole-text search when the engine's surface form drifted from the
// running cursor.
func indexFrom(text, sub string, from int) int {
	if from < 0 || from > len(text) {
		from = 0
	}
	if i := strings.Index(text[from:], sub); i >= 0 {
		return from + i
	}
	return strings.Index(text, sub)
}
