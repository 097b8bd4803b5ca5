package nlp

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/omrozmn/x-ear-nlp/pkg/common/models"
)

const (
	regexNameConfidence    = 0.9
	fallbackNameConfidence = 0.8
	minNameRunes           = 4
)

// Regex variants evaluated against the Turkish upper-cased text, in
// declaration order. Every variant contributes to one shared candidate
// pool; the list order is intentional and reproducible, not a loop
// artifact.
var patientNamePatterns = []*regexp.Regexp{
	// all-uppercase names (ONUR AYDOĞDU)
	regexp.MustCompile(`HASTA\s+ADI?\s+SOYADI?\s*[:\-]\s*([A-ZÇĞIİÖŞÜ\s]+)`),
	regexp.MustCompile(`HASTA\s+ADI?\s*[:\-]\s*([A-ZÇĞIİÖŞÜ\s]+)`),
	// mixed-case names (Onur Aydoğdu); these variants cannot fire
	// against the fully upper-cased view
	regexp.MustCompile(`HASTA\s+ADI?\s+SOYADI?\s*[:\-]\s*([A-ZÇĞIİÖŞÜ][a-zçğıöşü]+(?:\s+[A-ZÇĞIİÖŞÜ][a-zçğıöşü]+)*)`),
	regexp.MustCompile(`HASTA\s+ADI?\s*[:\-]\s*([A-ZÇĞIİÖŞÜ][a-zçğıöşü]+(?:\s+[A-ZÇĞIİÖŞÜ][a-zçğıöşü]+)*)`),
	regexp.MustCompile(`PATIENT\s+NAME\s*[:\-]\s*([A-ZÇĞIİÖŞÜ][a-zçğıöşü]+(?:\s+[A-ZÇĞIİÖŞÜ][a-zçğıöşü]+)*)`),
	regexp.MustCompile(`ADI?\s+SOYADI?\s*[:\-]\s*([A-ZÇĞIİÖŞÜ][a-zçğıöşü]+(?:\s+[A-ZÇĞIİÖŞÜ][a-zçğıöşü]+)*)`),
}

// Candidates containing any of these terms under the matching fold are
// staff, institution or otherwise known false positives, never
// patients.
var excludedNameTerms = []string{
	"DOKTOR", "DR", "MÜDÜR", "SORUMLU", "HEKIM", "UZMAN", "PROF", "DOÇ",
	"SGK", "HASTANE", "KLINIK", "MERKEZ", "SAĞLIK", "TIP", "UNIVERSITE",
	"UMIT KANAY", "ÜMİT KANAY",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// PatientNameExtractor pulls the patient's name out of an unstructured
// Turkish medical document. Cascade: regex variants with exclusion
// filtering first; only when that pool ends up empty, the token pattern
// matcher restricted to the PATIENT_NAME label.
type PatientNameExtractor struct {
	matcher *Matcher
}

func NewPatientNameExtractor(matcher *Matcher) *PatientNameExtractor {
	return &PatientNameExtractor{matcher: matcher}
}

// Extract returns the highest-confidence candidate, ties broken by
// discovery order. A nil result means no patient name was found, which
// is not an error.
func (e *PatientNameExtractor) Extract(doc *models.Document) *models.PatientNameResult {
	candidates := e.regexCandidates(doc.Text)
	if len(candidates) == 0 {
		candidates = e.patternCandidates(doc)
	}

	var best *models.PatientNameResult
	for i := range candidates {
		if best == nil || candidates[i].Confidence > best.Confidence {
			best = &candidates[i]
		}
	}
	return best
}

func (e *PatientNameExtractor) regexCandidates(text string) []models.PatientNameResult {
	folded := foldUpper(text)

	var candidates []models.PatientNameResult
	for _, re := range patientNamePatterns {
		for _, match := range re.FindAllStringSubmatchIndex(folded.Upper, -1) {
			start, end := match[2], match[3]
			name := strings.TrimSpace(whitespaceRun.ReplaceAllString(folded.Upper[start:end], " "))
			if utf8.RuneCountInString(name) < minNameRunes || isExcludedName(name) {
				continue
			}
			candidates = append(candidates, models.PatientNameResult{
				Name:       titleTurkish(name),
				Start:      folded.Orig(start),
				End:        folded.Orig(end),
				Confidence: regexNameConfidence,
				Method:     models.MethodPatternMatching,
			})
		}
	}
	return candidates
}

// patternCandidates is the fallback path: PATIENT_NAME spans from the
// token matcher, with the label prefix stripped through the first
// colon. The exclusion list is not applied here, matching the rule set
// this cascade replaces.
func (e *PatientNameExtractor) patternCandidates(doc *models.Document) []models.PatientNameResult {
	var candidates []models.PatientNameResult
	for _, span := range e.matcher.Match(doc) {
		if span.Label != models.LabelPatientName {
			continue
		}
		name := span.Text
		if idx := strings.Index(name, ":"); idx >= 0 {
			name = name[idx+1:]
		}
		name = strings.TrimSpace(name)
		if utf8.RuneCountInString(name) < minNameRunes {
			continue
		}
		candidates = append(candidates, models.PatientNameResult{
			Name:       titleTurkish(name),
			Start:      span.Start,
			End:        span.End,
			Confidence: fallbackNameConfidence,
			Method:     models.MethodModelMatching,
		})
	}
	return candidates
}

func isExcludedName(name string) bool {
	folded := matchLower(name)
	for _, term := range excludedNameTerms {
		if strings.Contains(folded, matchLower(term)) {
			return true
		}
	}
	return false
}
