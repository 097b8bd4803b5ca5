package nlp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

// ClassificationRule maps a keyword set to a document type with a fixed
// confidence. Confidences are static per rule, not computed.
type ClassificationRule struct {
	Type       string   `yaml:"type" json:"type"`
	Keywords   []string `yaml:"keywords" json:"keywords"`
	Confidence float64  `yaml:"confidence" json:"confidence"`
}

type ClassifierConfig struct {
	Rules []ClassificationRule `yaml:"rules" json:"rules"`
}

func LoadClassifierRules(path string) (ClassifierConfig, error) {
	if path == "" {
		return DefaultClassifierRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultClassifierRules(), err
	}
	var cfg ClassifierConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return ClassifierConfig{}, err
	}
	if len(cfg.Rules) == 0 {
		return ClassifierConfig{}, errors.New("no classifier rules configured")
	}
	return cfg, nil
}

func DefaultClassifierRules() ClassifierConfig {
	return ClassifierConfig{Rules: []ClassificationRule{
		{Type: models.DocTypeSGKDeviceReport, Keywords: []string{"sgk", "sosyal güvenlik", "cihaz raporu"}, Confidence: 0.95},
		{Type: models.DocTypePrescription, Keywords: []string{"reçete", "prescription", "ilaç"}, Confidence: 0.90},
		{Type: models.DocTypeAudiometryReport, Keywords: []string{"odyometri", "audiometry", "işitme testi"}, Confidence: 0.88},
		{Type: models.DocTypeMedicalReport, Keywords: []string{"rapor", "muayene", "bulgular"}, Confidence: 0.75},
	}}
}

type Classifier struct {
	rules []ClassificationRule
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{rules: cfg.Rules}
}

// Classify returns the type of the first rule with any keyword present
// as a substring of the text under the matching fold. Rule order
// encodes priority; there is no multi-label output and no partial
// credit. Keyword matching is not word-boundary aware.
func (c *Classifier) Classify(text string) models.ClassificationResult {
	folded := matchLower(text)
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(folded, matchLower(keyword)) {
				return models.ClassificationResult{Type: rule.Type, Confidence: rule.Confidence}
			}
		}
	}
	return models.ClassificationResult{Type: models.DocTypeOther, Confidence: 0.50}
}
