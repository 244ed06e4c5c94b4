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

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

func parseFeedbackID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, badRequest("Invalid feedback ID")
	}
	return parsed, nil
}

func (s *FeedbackService) loadFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.db.WithContext(ctx).First(&fb, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Feedback not found")
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// Create records feedback from a manager to one of their direct reports.
func (s *FeedbackService) Create(ctx context.Context, user *models.User, req *types.CreateFeedbackRequest) (*models.Feedback, error) {
	if err := requireManager(user); err != nil {
		return nil, err
	}
	if _, err := requireTeamMember(ctx, s.db, user.EmployeeID, req.EmployeeID); err != nil {
		return nil, err
	}

	fb := models.Feedback{
		EmployeeID:       req.EmployeeID,
		ManagerID:        user.EmployeeID,
		Strengths:        req.Strengths,
		AreasToImprove:   req.AreasToImprove,
		OverallSentiment: req.OverallSentiment,
		AdditionalNotes:  req.AdditionalNotes,
		FormData:         datatypes.JSONMap(req.FormData),
		FormID:           req.FormID,
		CreatedAt:        time.Now().UTC(),
		IsAcknowledged:   false,
	}
	if err := s.db.WithContext(ctx).Create(&fb).Error; err != nil {
		return nil, err
	}
	fb.Normalize()
	return &fb, nil
}

// List returns the feedback rows visible to the caller, newest first. A
// manager may narrow to one team member via employeeID.
func (s *FeedbackService) List(ctx context.Context, user *models.User, employeeID string) ([]models.Feedback, error) {
	scope, err := feedbackListScope(ctx, s.db, user, employeeID)
	if err != nil {
		return nil, err
	}

	var list []models.Feedback
	q := scope.Apply(s.db.WithContext(ctx).Model(&models.Feedback{}))
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

// Get loads one feedback row by id and then checks ownership, so a foreign
// but existing id answers 403 rather than 404.
func (s *FeedbackService) Get(ctx context.Context, user *models.User, id string) (*models.Feedback, error) {
	parsed, err := parseFeedbackID(id)
	if err != nil {
		return nil, err
	}
	fb, err := s.loadFeedback(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if err := authorizeFeedbackRead(user, fb); err != nil {
		return nil, err
	}
	fb.Normalize()
	return fb, nil
}

// Update applies a partial patch; only non-nil fields overwrite. Restricted
// to the authoring manager.
func (s *FeedbackService) Update(ctx context.Context, user *models.User, id string, patch *types.UpdateFeedbackRequest) (*models.Feedback, error) {
	if err := requireManager(user); err != nil {
		return nil, err
	}
	parsed, err := parseFeedbackID(id)
	if err != nil {
		return nil, err
	}
	fb, err := s.loadFeedback(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if err := authorizeFeedbackWrite(user, fb, "update"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.Strengths != nil {
		updates["strengths"] = *patch.Strengths
	}
	if patch.AreasToImprove != nil {
		updates["areas_to_improve"] = *patch.AreasToImprove
	}
	if patch.OverallSentiment != nil {
		updates["overall_sentiment"] = *patch.OverallSentiment
	}
	if patch.AdditionalNotes != nil {
		updates["additional_notes"] = *patch.AdditionalNotes
	}
	if patch.FormData != nil {
		updates["form_data"] = datatypes.JSONMap(patch.FormData)
	}

	if err := s.db.WithContext(ctx).Model(fb).Updates(updates).Error; err != nil {
		return nil, err
	}

	updated, err := s.loadFeedback(ctx, parsed)
	if err != nil {
		return nil, err
	}
	updated.Normalize()
	return updated, nil
}

// Acknowledge marks feedback as seen by its employee. There is no
// already-acknowledged guard: a repeat call succeeds and rewrites the
// acknowledgement timestamp.
func (s *FeedbackService) Acknowledge(ctx context.Context, user *models.User, id string) error {
	if user.IsManager() {
		return forbidden("Only employees can acknowledge feedback")
	}
	parsed, err := parseFeedbackID(id)
	if err != nil {
		return err
	}
	fb, err := s.loadFeedback(ctx, parsed)
	if err != nil {
		return err
	}
	if err := authorizeAcknowledge(user, fb); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(fb).Updates(map[string]interface{}{
		"is_acknowledged": true,
		"acknowledged_at": time.Now().UTC(),
	}).Error
}

// Delete removes a feedback row. Restricted to the authoring manager.
func (s *FeedbackService) Delete(ctx context.Context, user *models.User, id string) error {
	if err := requireManager(user); err != nil {
		return err
	}
	parsed, err := parseFeedbackID(id)
	if err != nil {
		return err
	}
	fb, err := s.loadFeedback(ctx, parsed)
	if err != nil {
		return err
	}
	if err := authorizeFeedbackWrite(user, fb, "delete"); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(fb).Error
}
