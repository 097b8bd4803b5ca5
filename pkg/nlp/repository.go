package nlp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository persists an audit trail of extraction runs. Writes are
// best effort; the service keeps working without a database.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ExtractionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentType   string    `gorm:"index"`
	Classification string
	Confidence     float64
	EntityCount    int
	TermCount      int
	PatientName    string
	Method         string
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time
}

func (ExtractionModel) TableName() string {
	return "extractions"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ExtractionModel{})
}

type SaveExtractionInput struct {
	DocumentType   string
	Classification string
	Confidence     float64
	EntityCount    int
	TermCount      int
	PatientName    string
	Method         string
	Metadata       map[string]interface{}
}

func (r *Repository) SaveExtraction(ctx context.Context, input SaveExtractionInput) error {
	record := ExtractionModel{
		ID:             uuid.New(),
		DocumentType:   input.DocumentType,
		Classification: input.Classification,
		Confidence:     input.Confidence,
		EntityCount:    input.EntityCount,
		TermCount:      input.TermCount,
		PatientName:    input.PatientName,
		Method:         input.Method,
		Metadata:       datatypes.JSONMap(input.Metadata),
		CreatedAt:      time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

type Extraction struct {
	ID             uuid.UUID              `json:"id"`
	DocumentType   string                 `json:"document_type"`
	Classification string                 `json:"classification,omitempty"`
	Confidence     float64                `json:"confidence"`
	EntityCount    int                    `json:"entity_count"`
	TermCount      int                    `json:"term_count"`
	PatientName    string                 `json:"patient_name,omitempty"`
	Method         string                 `json:"method,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Extraction, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var records []ExtractionModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]Extraction, 0, len(records))
	for _, record := range records {
		out = append(out, Extraction{
			ID:             record.ID,
			DocumentType:   record.DocumentType,
			Classification: record.Classification,
			Confidence:     record.Confidence,
			EntityCount:    record.EntityCount,
			TermCount:      record.TermCount,
			PatientName:    record.PatientName,
			Method:         record.Method,
			Metadata:       map[string]interface{}(record.Metadata),
			CreatedAt:      record.CreatedAt,
		})
	}
	return out, nil
}
