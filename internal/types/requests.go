package types

import "github.com/teampulse/feedback-backend/internal/models"

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	FullName   string  `json:"full_name" binding:"required"`
	Role       string  `json:"role" binding:"required,oneof=manager employee"`
	EmployeeID string  `json:"employee_id" binding:"required"`
	Department string  `json:"department"`
	ManagerID  *string `json:"manager_id"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateFeedbackRequest is the payload for POST /api/feedback. Sentiment is
// accepted as-is and canonicalized on read.
type CreateFeedbackRequest struct {
	EmployeeID       string         `json:"employee_id" binding:"required"`
	Strengths        string         `json:"strengths" binding:"required"`
	AreasToImprove   string         `json:"areas_to_improve" binding:"required"`
	OverallSentiment string         `json:"overall_sentiment" binding:"required"`
	AdditionalNotes  string         `json:"additional_notes"`
	FormData         map[string]any `json:"form_data"`
	FormID           *string        `json:"form_id"`
}

// UpdateFeedbackRequest is a partial patch; only non-nil fields overwrite.
type UpdateFeedbackRequest struct {
	Strengths        *string        `json:"strengths"`
	AreasToImprove   *string        `json:"areas_to_improve"`
	OverallSentiment *string        `json:"overall_sentiment"`
	AdditionalNotes  *string        `json:"additional_notes"`
	FormData         map[string]any `json:"form_data"`
}

// CreateFormRequest is the payload for POST /api/forms.
type CreateFormRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Fields      []models.FormField `json:"fields" binding:"required"`
	IsActive    *bool              `json:"is_active"`
}

// UpdateFormRequest is a partial patch for a form. A non-nil Fields replaces
// the whole field schema.
type UpdateFormRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Fields      *[]models.FormField `json:"fields"`
	IsActive    *bool               `json:"is_active"`
}

// ManagerOption is one entry of the manager picker on the registration page.
type ManagerOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
