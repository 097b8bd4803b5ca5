package nlp

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

// Confidence assigned to every pattern-matcher span, mirroring the
// fixed score of the rule set this service replaces.
const patternMatchConfidence = 0.9

// TokenPredicate constrains a single token. Exactly one of Lower,
// Regex or IsAlpha is set per predicate.
type TokenPredicate struct {
	// Lower matches when the token equals any listed value under the
	// matching fold.
	Lower []string
	// Regex matches against the raw token text.
	Regex *regexp.Regexp
	// IsAlpha matches alphabetic tokens of at least MinLen runes.
	IsAlpha bool
	MinLen  int
}

func lowerTok(values ...string) TokenPredicate {
	return TokenPredicate{Lower: values}
}

func regexTok(expr string) TokenPredicate {
	return TokenPredicate{Regex: regexp.MustCompile(expr)}
}

func alphaTok(minLen int) TokenPredicate {
	return TokenPredicate{IsAlpha: true, MinLen: minLen}
}

func (p TokenPredicate) match(text string) bool {
	switch {
	case len(p.Lower) > 0:
		folded := matchLower(text)
		for _, want := range p.Lower {
			if folded == matchLower(want) {
				return true
			}
		}
		return false
	case p.Regex != nil:
		return p.Regex.MatchString(text)
	case p.IsAlpha:
		if utf8.RuneCountInString(text) < p.MinLen {
			return false
		}
		for _, r := range text {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		return true
	}
	return false
}

// PatternGroup is a named entity label with the ordered token patterns
// that produce it.
type PatternGroup struct {
	Label    string
	Patterns [][]TokenPredicate
}

// Matcher evaluates every pattern group independently over a tokenized
// document. Overlapping spans from different labels are all returned;
// consumers decide precedence (the patient name extractor filters by
// label and applies its own exclusions).
type Matcher struct {
	groups []PatternGroup
}

func NewMatcher() *Matcher {
	return &Matcher{groups: defaultPatternGroups()}
}

func defaultPatternGroups() []PatternGroup {
	return []PatternGroup{
		{Label: models.LabelTCNumber, Patterns: [][]TokenPredicate{
			{regexTok(`\d{11}`)},
		}},
		{Label: models.LabelMedicalDevice, Patterns: [][]TokenPredicate{
			{lowerTok("işitme"), lowerTok("cihazı")},
			{lowerTok("hearing"), lowerTok("aid")},
			{lowerTok("koklear"), lowerTok("implant")},
			{lowerTok("cochlear"), lowerTok("implant")},
		}},
		{Label: models.LabelMedicalCondition, Patterns: [][]TokenPredicate{
			{lowerTok("işitme"), lowerTok("kaybı")},
			{lowerTok("hearing"), lowerTok("loss")},
			{lowerTok("sağırlık")},
			{lowerTok("tinnitus")},
			{lowerTok("vertigo")},
		}},
		{Label: models.LabelPatientName, Patterns: [][]TokenPredicate{
			{lowerTok("hasta"), lowerTok("adi", "adı"), lowerTok("soyadi", "soyadı"), lowerTok(":"), alphaTok(2)},
			{lowerTok("hasta"), lowerTok("adi", "adı"), lowerTok(":"), alphaTok(2)},
			{lowerTok("patient"), lowerTok("name"), lowerTok(":"), alphaTok(2)},
		}},
		{Label: models.LabelDoctorStaff, Patterns: [][]TokenPredicate{
			{lowerTok("dr"), lowerTok("."), alphaTok(1)},
			{lowerTok("doktor"), alphaTok(1)},
			{lowerTok("müdür"), alphaTok(1)},
			{lowerTok("sorumlu"), alphaTok(1)},
		}},
	}
}

// Match returns every span matched by any pattern of any group, in
// document order. Patterns bind contiguous token runs; a span covers
// the first matched token's start through the last matched token's end.
func (m *Matcher) Match(doc *models.Document) []models.EntitySpan {
	spans := make([]models.EntitySpan, 0)
	for _, group := range m.groups {
		for _, pattern := range group.Patterns {
			if len(pattern) == 0 {
				continue
			}
			for i := 0; i+len(pattern) <= len(doc.Tokens); i++ {
				if !matchAt(doc.Tokens, i, pattern) {
					continue
				}
				first := doc.Tokens[i]
				last := doc.Tokens[i+len(pattern)-1]
				spans = append(spans, models.EntitySpan{
					Text:       doc.Text[first.Start:last.End],
					Label:      group.Label,
					Start:      first.Start,
					End:        last.End,
					Confidence: patternMatchConfidence,
				})
			}
		}
	}

	sort.SliceStable(spans, func(a, b int) bool {
		if spans[a].Start != spans[b].Start {
			return spans[a].Start < spans[b].Start
		}
		return spans[a].End < spans[b].End
	})
	return spans
}

func matchAt(tokens []models.Token, at int, pattern []TokenPredicate) bool {
	for j, pred := range pattern {
		if !pred.match(tokens[at+j].Text) {
			return false
		}
	}
	return true
}
