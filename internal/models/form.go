package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Form field kinds a manager may compose a form from.
const (
	FieldText          = "text"
	FieldTextarea      = "textarea"
	FieldSelect        = "select"
	FieldRadio         = "radio"
	FieldCheckbox      = "checkbox"
	FieldFile          = "file"
	FieldDatetimeLocal = "datetime-local"
	FieldDate          = "date"
	FieldTime          = "time"
	FieldNumber        = "number"
	FieldEmail         = "email"
	FieldPassword      = "password"
)

// FormField is one entry in a form's dynamic field schema. ID and Name are
// derived from Label when the client leaves them blank.
type FormField struct {
	ID          string   `json:"id,omitempty"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Name        string   `json:"name,omitempty"`
}

// Derive fills a blank ID with the slug of the label (lowercase, spaces to
// underscores) and a blank Name with its camelCase form.
func (f *FormField) Derive() {
	if f.Label == "" {
		return
	}
	if f.ID == "" {
		f.ID = strings.ReplaceAll(strings.ToLower(f.Label), " ", "_")
	}
	if f.Name == "" {
		f.Name = toCamelCase(f.Label)
	}
}

func toCamelCase(label string) string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	return b.String()
}

// FeedbackForm is a manager-authored form template. Fields holds the ordered
// FormField schema as a JSON column; FormData on submissions is validated
// against it only for required-field presence.
type FeedbackForm struct {
	ID          uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Fields      datatypes.JSON `json:"fields"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	ManagerID   string         `gorm:"not null;index" json:"manager_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	// SubmissionCount is computed per form on list reads; it is never stored.
	SubmissionCount *int64 `gorm:"-" json:"submission_count,omitempty"`
}

func (FeedbackForm) TableName() string {
	return "forms"
}

func (f *FeedbackForm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FieldList decodes the stored field schema.
func (f *FeedbackForm) FieldList() ([]FormField, error) {
	if len(f.Fields) == 0 {
		return nil, nil
	}
	var fields []FormField
	if err := json.Unmarshal(f.Fields, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// SetFields derives missing field identifiers and stores the schema.
func (f *FeedbackForm) SetFields(fields []FormField) error {
	for i := range fields {
		fields[i].Derive()
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	f.Fields = datatypes.JSON(raw)
	return nil
}
