package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Canonical sentiment values. Anything stored outside this set is folded to
// one of these on every read path.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Feedback is a single feedback record from a manager to an employee. Rows
// created through a custom form carry a non-nil FormID and the raw field
// values in FormData.
type Feedback struct {
	ID               uuid.UUID         `gorm:"type:uuid;primarykey" json:"id"`
	EmployeeID       string            `gorm:"not null;index:idx_feedback_employee_created,priority:1" json:"employee_id"`
	ManagerID        string            `gorm:"not null;index" json:"manager_id"`
	Strengths        string            `gorm:"type:text" json:"strengths"`
	AreasToImprove   string            `gorm:"type:text" json:"areas_to_improve"`
	OverallSentiment string            `json:"overall_sentiment"`
	AdditionalNotes  string            `gorm:"type:text" json:"additional_notes,omitempty"`
	FormData         datatypes.JSONMap `json:"form_data,omitempty"`
	FormID           *string           `json:"form_id,omitempty"`
	CreatedAt        time.Time         `gorm:"index:idx_feedback_employee_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt        *time.Time        `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	IsAcknowledged   bool              `gorm:"default:false" json:"is_acknowledged"`
	AcknowledgedAt   *time.Time        `json:"acknowledged_at,omitempty"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// NormalizeSentiment folds a stored sentiment value to the canonical set.
// Legacy rows carry values like "POS" or "Negative"; empty and unknown
// values become neutral.
func NormalizeSentiment(sentiment string) string {
	switch strings.ToLower(strings.TrimSpace(sentiment)) {
	case "positive", "pos":
		return SentimentPositive
	case "negative", "neg":
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Normalize canonicalizes the sentiment in place. Every read path calls this
// before the record leaves the service layer.
func (f *Feedback) Normalize() {
	f.OverallSentiment = NormalizeSentiment(f.OverallSentiment)
}
