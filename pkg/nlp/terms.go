package nlp

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

type TermCategory struct {
	Name  string   `yaml:"name" json:"name"`
	Terms []string `yaml:"terms" json:"terms"`
}

// TermDictionary maps categories to the domain terms scanned for in
// every document. Categories keep their declaration order.
type TermDictionary struct {
	Categories []TermCategory `yaml:"categories" json:"categories"`
}

func LoadDictionary(path string) (TermDictionary, error) {
	if path == "" {
		return DefaultDictionary(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultDictionary(), err
	}
	var dict TermDictionary
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return TermDictionary{}, err
	}
	if len(dict.Categories) == 0 {
		return TermDictionary{}, errors.New("term dictionary empty")
	}
	return dict, nil
}

func DefaultDictionary() TermDictionary {
	return TermDictionary{Categories: []TermCategory{
		{Name: "hearing_conditions", Terms: []string{
			"işitme kaybı", "işitme azalması", "sağırlık", "hearing loss",
			"sensörinöral işitme kaybı", "iletim tipi işitme kaybı",
			"karma tip işitme kaybı", "presbyküzi", "ototoksisite",
		}},
		{Name: "devices", Terms: []string{
			"işitme cihazı", "hearing aid", "işitme aleti",
			"BTE", "ITE", "CIC", "RIC", "kulak arkası cihaz",
			"kulak içi cihaz", "koklear implant", "cochlear implant",
		}},
		{Name: "procedures", Terms: []string{
			"odyometri", "audiometry", "işitme testi",
			"timpanometri", "ABR", "ameliyat", "surgery",
		}},
	}}
}

// FindTerms reports every occurrence of every dictionary term under
// Turkish case folding. Matching is substring based and deliberately
// not word-boundary aware, so short terms can hit inside longer words;
// offsets are byte offsets into the original text.
func (d TermDictionary) FindTerms(text string) []models.MedicalTermHit {
	hits := make([]models.MedicalTermHit, 0)
	for _, category := range d.Categories {
		for _, term := range category.Terms {
			for _, pos := range foldPositions(text, term) {
				hits = append(hits, models.MedicalTermHit{
					Term:     term,
					Category: category.Name,
					Start:    pos[0],
					End:      pos[1],
				})
			}
		}
	}
	return hits
}
