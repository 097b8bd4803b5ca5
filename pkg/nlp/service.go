package nlp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omrozmn/x-ear-nlp/pkg/common/config"
	"github.com/omrozmn/x-ear-nlp/pkg/common/logger"
	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

// Service composes the pipeline, pattern matcher, term dictionary and
// classifier into one document-processing facade. The shared state is
// built once and treated as read-only afterwards, so requests run in
// parallel without locks; only (re)initialization takes the mutex.
type Service struct {
	cfg *config.Config

	mu          sync.Mutex
	initialized bool
	state       pipelineState

	cache *redis.Client
	repo  *Repository
}

type pipelineState struct {
	pipeline   *Pipeline
	matcher    *Matcher
	terms      TermDictionary
	classifier *Classifier
	extractor  *PatientNameExtractor
}

func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// WithCache enables the best-effort Redis result cache. Only effective
// together with a positive ResultCacheTTL.
func (s *Service) WithCache(client *redis.Client) *Service {
	s.cache = client
	return s
}

// WithRepository enables the best-effort extraction audit trail.
func (s *Service) WithRepository(repo *Repository) *Service {
	s.repo = repo
	return s
}

// Initialize builds the pipeline state. Idempotent: a repeated call
// rebuilds everything and swaps the state wholesale under the lock.
// On failure nothing is replaced and the service stays uninitialized
// unless a previous call succeeded.
func (s *Service) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked()
}

func (s *Service) initializeLocked() error {
	terms, err := LoadDictionary(s.cfg.TermsPath)
	if err != nil {
		if len(terms.Categories) == 0 {
			return err
		}
		logger.Log.WithError(err).Warn("Term dictionary not readable, using built-in table")
	}

	rules, err := LoadClassifierRules(s.cfg.ClassifierRulesPath)
	if err != nil {
		if len(rules.Rules) == 0 {
			return err
		}
		logger.Log.WithError(err).Warn("Classifier rules not readable, using built-in table")
	}

	matcher := NewMatcher()
	pipeline := NewPipeline(s.cfg)

	s.state = pipelineState{
		pipeline:   pipeline,
		matcher:    matcher,
		terms:      terms,
		classifier: NewClassifier(rules),
		extractor:  NewPatientNameExtractor(matcher),
	}
	s.initialized = true

	logger.Log.WithField("model", pipeline.Tier()).Info("NLP service initialized")
	return nil
}

// snapshot returns the current pipeline state, lazily initializing on
// first use.
func (s *Service) snapshot() (pipelineState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		if err := s.initializeLocked(); err != nil {
			return pipelineState{}, err
		}
	}
	return s.state, nil
}

func (s *Service) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// ModelTier reports the loaded model tier, empty before initialization.
func (s *Service) ModelTier() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.pipeline == nil {
		return ""
	}
	return s.state.pipeline.Tier()
}

// ProcessDocument runs model NER, the pattern matcher, the classifier
// and the term dictionary independently over one text and merges their
// outputs side by side. No cross-component conflict resolution is
// performed; callers reconcile the signals.
func (s *Service) ProcessDocument(ctx context.Context, text, docType string) (*models.ProcessResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	if cached := s.cachedResult(ctx, text, docType); cached != nil {
		return cached, nil
	}

	doc := st.pipeline.Tokenize(text)

	result := &models.ProcessResult{
		Entities:       doc.Entities,
		CustomEntities: st.matcher.Match(doc),
		Classification: st.classifier.Classify(text),
		MedicalTerms:   st.terms.FindTerms(text),
		Tokens:         doc.Tokens,
		Sentences:      sentenceTexts(doc.Sentences),
		Language:       doc.Language,
		ProcessingTime: time.Now().UTC(),
	}

	s.storeCachedResult(ctx, text, docType, result)
	s.audit(ctx, docType, result, nil)
	return result, nil
}

// ExtractPatientName runs the regex→pattern cascade. A (nil, nil)
// return means no patient name was found.
func (s *Service) ExtractPatientName(ctx context.Context, text string) (*models.PatientNameResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	doc := st.pipeline.Tokenize(text)
	result := st.extractor.Extract(doc)
	if result != nil {
		s.audit(ctx, "patient_name", nil, result)
	}
	return result, nil
}

// Classify exposes the keyword classifier on its own; ProcessDocument
// uses the same rule table internally.
func (s *Service) Classify(text string) (models.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return models.ClassificationResult{}, ErrEmptyInput
	}
	st, err := s.snapshot()
	if err != nil {
		return models.ClassificationResult{}, err
	}
	return st.classifier.Classify(text), nil
}

func (s *Service) Similarity(ctx context.Context, text1, text2 string) (models.SimilarityResult, error) {
	if strings.TrimSpace(text1) == "" || strings.TrimSpace(text2) == "" {
		return models.SimilarityResult{}, ErrEmptyInput
	}
	st, err := s.snapshot()
	if err != nil {
		return models.SimilarityResult{}, err
	}
	return st.pipeline.Similarity(text1, text2)
}

func sentenceTexts(sentences []models.Sentence) []string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, s.Text)
	}
	return out
}

func (s *Service) cacheKey(text, docType string) string {
	sum := sha256.Sum256([]byte(docType + "\x00" + text))
	return "nlp:process:" + hex.EncodeToString(sum[:])
}

func (s *Service) cachedResult(ctx context.Context, text, docType string) *models.ProcessResult {
	if s.cache == nil || s.cfg.ResultCacheTTL <= 0 {
		return nil
	}
	payload, err := s.cache.Get(ctx, s.cacheKey(text, docType)).Bytes()
	if err != nil {
		// redis.Nil and transport errors are both cache misses here.
		return nil
	}
	var result models.ProcessResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil
	}
	return &result
}

func (s *Service) storeCachedResult(ctx context.Context, text, docType string, result *models.ProcessResult) {
	if s.cache == nil || s.cfg.ResultCacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(text, docType), payload, s.cfg.ResultCacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Debug("Failed to cache process result")
	}
}

func (s *Service) audit(ctx context.Context, docType string, result *models.ProcessResult, name *models.PatientNameResult) {
	if s.repo == nil {
		return
	}
	input := SaveExtractionInput{DocumentType: docType}
	if result != nil {
		input.Classification = result.Classification.Type
		input.Confidence = result.Classification.Confidence
		input.EntityCount = len(result.Entities) + len(result.CustomEntities)
		input.TermCount = len(result.MedicalTerms)
	}
	if name != nil {
		input.PatientName = name.Name
		input.Method = name.Method
		input.Confidence = name.Confidence
	}
	if err := s.repo.SaveExtraction(ctx, input); err != nil {
		logger.Log.WithError(err).Warn("Failed to record extraction audit")
	}
}
