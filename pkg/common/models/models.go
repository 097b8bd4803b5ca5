package models

import "time"

// Entity labels produced by the pattern matcher. The statistical model
// contributes its own native labels (PERSON, GPE, ...) in the same shape.
const (
	LabelTCNumber         = "TC_NUMBER"
	LabelMedicalDevice    = "MEDICAL_DEVICE"
	LabelMedicalCondition = "MEDICAL_CONDITION"
	LabelPatientName      = "PATIENT_NAME"
	LabelDoctorStaff      = "DOCTOR_STAFF"
)

// Document types returned by the classifier, in rule priority order.
const (
	DocTypeSGKDeviceReport  = "sgk_device_report"
	DocTypePrescription     = "prescription"
	DocTypeAudiometryReport = "audiometry_report"
	DocTypeMedicalReport    = "medical_report"
	DocTypeOther            = "other"
)

// Extraction methods reported by the patient name extractor.
const (
	MethodPatternMatching = "pattern_matching"
	MethodModelMatching   = "model_matching"
)

type Token struct {
	Text  string `json:"text"`
	POS   string `json:"pos"`
	Lemma string `json:"lemma"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type Sentence struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// EntitySpan is a labeled substring with byte offsets into the original
// text. Both the statistical model and the pattern matcher produce this
// shape, so merged results carry no caller-visible origin distinction.
type EntitySpan struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

type MedicalTermHit struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

type ClassificationResult struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

type PatientNameResult struct {
	Name       string  `json:"name"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// Document is the tokenized view of one ingested text. Produced by the
// pipeline, read-only downstream; lifecycle is a single request.
type Document struct {
	Text      string
	Language  string
	Tokens    []Token
	Sentences []Sentence
	Entities  []EntitySpan
}

type ProcessResult struct {
	Entities       []EntitySpan         `json:"entities"`
	CustomEntities []EntitySpan         `json:"custom_entities"`
	Classification ClassificationResult `json:"classification"`
	MedicalTerms   []MedicalTermHit     `json:"medical_terms"`
	Tokens         []Token              `json:"tokens"`
	Sentences      []string             `json:"sentences"`
	Language       string               `json:"language"`
	ProcessingTime time.Time            `json:"processing_time"`
}

type SimilarityResult struct {
	Similarity  float64 `json:"similarity"`
	Text1Tokens int     `json:"text1_tokens"`
	Text2Tokens int     `json:"text2_tokens"`
	Method      string  `json:"method"`
}

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // document, nlp_result
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
