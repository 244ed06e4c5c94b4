package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/teampulse/feedback-backend/internal/models"
	"github.com/teampulse/feedback-backend/internal/types"
)

type FormService struct {
	db *gorm.DB
}

func NewFormService(db *gorm.DB) *FormService {
	return &FormService{db: db}
}

func parseFormID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, badRequest("Invalid form ID")
	}
	return parsed, nil
}

func (s *FormService) loadForm(ctx context.Context, id uuid.UUID) (*models.FeedbackForm, error) {
	var form models.FeedbackForm
	err := s.db.WithContext(ctx).First(&form, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Form not found")
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// Create stores a new form template owned by the calling manager. Field ids
// and names are derived from labels when the client leaves them blank.
func (s *FormService) Create(ctx context.Context, user *models.User, req *types.CreateFormRequest) (*models.FeedbackForm, error) {
	if err := requireManager(user); err != nil {
		return nil, err
	}

	form := models.FeedbackForm{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
		ManagerID:   user.EmployeeID,
		CreatedAt:   time.Now().UTC(),
	}
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}
	if err := form.SetFields(req.Fields); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// List returns the forms visible to the caller, newest first, each
// annotated with its submission count. The count is computed per form on
// every call rather than cached.
func (s *FormService) List(ctx context.Context, user *models.User) ([]models.FeedbackForm, error) {
	scope, err := formListScope(user, false)
	if err != nil {
		return nil, err
	}

	var forms []models.FeedbackForm
	q := scope.Apply(s.db.WithContext(ctx).Model(&models.FeedbackForm{}))
	if err := q.Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, err
	}

	for i := range forms {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Feedback{}).
			Where("form_id = ?", forms[i].ID.String()).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		forms[i].SubmissionCount = &count
	}
	return forms, nil
}

// ListActive returns only the active forms in the caller's scope.
func (s *FormService) ListActive(ctx context.Context, user *models.User) ([]models.FeedbackForm, error) {
	scope, err := formListScope(user, true)
	if err != nil {
		return nil, err
	}

	var forms []models.FeedbackForm
	q := scope.Apply(s.db.WithContext(ctx).Model(&models.FeedbackForm{}))
	if err := q.Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// Get loads one form, applying the visibility rules: non-owner managers are
// refused, employees only see their manager's forms, and an inactive form
// is hidden from employees entirely.
func (s *FormService) Get(ctx context.Context, user *models.User, id string) (*models.FeedbackForm, error) {
	parsed, err := parseFormID(id)
	if err != nil {
		return nil, err
	}
	form, err := s.loadForm(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if err := authorizeFormRead(user, form); err != nil {
		return nil, err
	}
	return form, nil
}

// Update applies a partial patch to a form the caller owns. A provided
// field list replaces the whole schema.
func (s *FormService) Update(ctx context.Context, user *models.User, id string, patch *types.UpdateFormRequest) (*models.FeedbackForm, error) {
	if err := requireManager(user); err != nil {
		return nil, err
	}
	parsed, err := parseFormID(id)
	if err != nil {
		return nil, err
	}
	form, err := s.loadForm(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if err := authorizeFormWrite(user, form, "update"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.Fields != nil {
		staged := models.FeedbackForm{}
		if err := staged.SetFields(*patch.Fields); err != nil {
			return nil, err
		}
		updates["fields"] = staged.Fields
	}

	if err := s.db.WithContext(ctx).Model(form).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.loadForm(ctx, parsed)
}

// Delete removes a form the caller owns. Hard delete; existing submissions
// keep their form_id reference.
func (s *FormService) Delete(ctx context.Context, user *models.User, id string) error {
	if err := requireManager(user); err != nil {
		return err
	}
	parsed, err := parseFormID(id)
	if err != nil {
		return err
	}
	form, err := s.loadForm(ctx, parsed)
	if err != nil {
		return err
	}
	if err := authorizeFormWrite(user, form, "delete"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(form).Error
}

// Submit records a form submission as a feedback row with form_id set.
// Employees submit on their own behalf against their manager's form; a
// manager submits on behalf of a confirmed direct report named by
// target_employee_id, which is stripped from the stored payload.
func (s *FormService) Submit(ctx context.Context, user *models.User, id string, payload map[string]any) (*models.Feedback, error) {
	parsed, err := parseFormID(id)
	if err != nil {
		return nil, err
	}
	form, err := s.loadForm(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if !form.IsActive {
		return nil, badRequest("Form is not active")
	}

	var employeeID, managerID string
	if !user.IsManager() {
		if user.ManagerID == nil || form.ManagerID != *user.ManagerID {
			return nil, forbidden("You can only use forms created by your manager")
		}
		employeeID = user.EmployeeID
		managerID = *user.ManagerID
	} else {
		if form.ManagerID != user.EmployeeID {
			return nil, forbidden("You can only use forms you've created")
		}
		target, _ := payload["target_employee_id"].(string)
		if target == "" {
			return nil, badRequest("target_employee_id is required when manager submits feedback")
		}
		if _, err := requireTeamMember(ctx, s.db, user.EmployeeID, target); err != nil {
			return nil, err
		}
		employeeID = target
		managerID = user.EmployeeID
		delete(payload, "target_employee_id")
	}

	if err := checkRequiredFields(form, payload); err != nil {
		return nil, err
	}

	formID := form.ID.String()
	fb := models.Feedback{
		EmployeeID:       employeeID,
		ManagerID:        managerID,
		Strengths:        payloadString(payload, "strengths", "Submitted via custom form"),
		AreasToImprove:   payloadString(payload, "areas_to_improve", "Submitted via custom form"),
		OverallSentiment: payloadString(payload, "overall_sentiment", models.SentimentNeutral),
		AdditionalNotes:  payloadString(payload, "additional_notes", "Submitted using form: "+form.Title),
		FormData:         datatypes.JSONMap(payload),
		FormID:           &formID,
		CreatedAt:        time.Now().UTC(),
		IsAcknowledged:   false,
	}
	if err := s.db.WithContext(ctx).Create(&fb).Error; err != nil {
		return nil, err
	}
	fb.Normalize()
	return &fb, nil
}

// Submissions lists every feedback row submitted through a form the caller
// owns, newest first.
func (s *FormService) Submissions(ctx context.Context, user *models.User, id string) ([]models.Feedback, error) {
	if err := requireManager(user); err != nil {
		return nil, err
	}
	parsed, err := parseFormID(id)
	if err != nil {
		return nil, err
	}
	form, err := s.loadForm(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if form.ManagerID != user.EmployeeID {
		return nil, forbidden("You can only view submissions for forms you've created")
	}

	var list []models.Feedback
	err = s.db.WithContext(ctx).
		Where("form_id = ?", form.ID.String()).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

// checkRequiredFields enforces required-field presence, the only validation
// applied to dynamic submissions.
func checkRequiredFields(form *models.FeedbackForm, payload map[string]any) error {
	fields, err := form.FieldList()
	if err != nil {
		return err
	}
	for _, field := range fields {
		if !field.Required {
			continue
		}
		v, ok := payload[field.ID]
		if !ok || v == nil || v == "" {
			return badRequest("Missing required field: " + field.Label)
		}
	}
	return nil
}

func payloadString(payload map[string]any, key, fallback string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}
