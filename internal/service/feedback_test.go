package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/feedback-backend/internal/models"
	"github.com/teampulse/feedback-backend/internal/types"
)

func TestCreateFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	employee := newEmployee(t, db, "E1", "M1")
	newEmployee(t, db, "E2", "M2")

	fb, err := svc.Create(ctx, manager, &types.CreateFeedbackRequest{
		EmployeeID:       "E1",
		Strengths:        "Ships on time",
		AreasToImprove:   "Testing",
		OverallSentiment: "POS",
	})
	require.NoError(t, err)
	assert.Equal(t, "M1", fb.ManagerID)
	assert.Equal(t, models.SentimentPositive, fb.OverallSentiment)
	assert.False(t, fb.IsAcknowledged)
	assert.Nil(t, fb.AcknowledgedAt)

	// Employees cannot author feedback.
	_, err = svc.Create(ctx, employee, &types.CreateFeedbackRequest{
		EmployeeID:       "E1",
		Strengths:        "x",
		AreasToImprove:   "y",
		OverallSentiment: "positive",
	})
	requireServiceError(t, err, http.StatusForbidden)

	// Target must be one of the caller's direct reports.
	_, err = svc.Create(ctx, manager, &types.CreateFeedbackRequest{
		EmployeeID:       "E2",
		Strengths:        "x",
		AreasToImprove:   "y",
		OverallSentiment: "positive",
	})
	requireServiceError(t, err, http.StatusNotFound)

	_, err = svc.Create(ctx, manager, &types.CreateFeedbackRequest{
		EmployeeID:       "GHOST",
		Strengths:        "x",
		AreasToImprove:   "y",
		OverallSentiment: "positive",
	})
	requireServiceError(t, err, http.StatusNotFound)
}

func TestListFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	employee := newEmployee(t, db, "E1", "M1")
	newEmployee(t, db, "E2", "M1")
	other := newManager(t, db, "M2")
	stranger := newEmployee(t, db, "E3", "M2")

	seed := func(employeeID, sentiment string, createdAt time.Time) {
		require.NoError(t, db.Create(&models.Feedback{
			EmployeeID:       employeeID,
			ManagerID:        "M1",
			Strengths:        "s",
			AreasToImprove:   "a",
			OverallSentiment: sentiment,
			CreatedAt:        createdAt,
		}).Error)
	}
	now := time.Now().UTC()
	seed("E1", "pos", now.Add(-2*time.Hour))
	seed("E1", "neg", now.Add(-time.Hour))
	seed("E2", "neutral", now)

	// Manager sees everything they authored, newest first.
	list, err := svc.List(ctx, manager, "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "E2", list[0].EmployeeID)
	assert.Equal(t, models.SentimentNegative, list[1].OverallSentiment)

	// Manager narrowed to one report.
	list, err = svc.List(ctx, manager, "E1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Narrowing to someone outside the team is refused.
	_, err = svc.List(ctx, manager, "E3")
	requireServiceError(t, err, http.StatusNotFound)

	// Employees see only their own rows; the filter is ignored for them.
	list, err = svc.List(ctx, employee, "E2")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, fb := range list {
		assert.Equal(t, "E1", fb.EmployeeID)
	}

	// Other manager has no rows.
	list, err = svc.List(ctx, other, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(ctx, stranger, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	employee := newEmployee(t, db, "E1", "M1")
	stranger := newEmployee(t, db, "E2", "M2")
	otherManager := newManager(t, db, "M2")

	fb, err := svc.Create(ctx, manager, &types.CreateFeedbackRequest{
		EmployeeID:       "E1",
		Strengths:        "s",
		AreasToImprove:   "a",
		OverallSentiment: "neg",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, employee, fb.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, got.OverallSentiment)

	_, err = svc.Get(ctx, manager, fb.ID.String())
	require.NoError(t, err)

	// Malformed id fails before any lookup.
	_, err = svc.Get(ctx, manager, "not-a-uuid")
	requireServiceError(t, err, http.StatusBadRequest)

	// Unknown id is a 404, an existing foreign id a 403.
	_, err = svc.Get(ctx, manager, "00000000-0000-0000-0000-000000000000")
	requireServiceError(t, err, http.StatusNotFound)
	_, err = svc.Get(ctx, stranger, fb.ID.String())
	requireServiceError(t, err, http.StatusForbidden)
	_, err = svc.Get(ctx, otherManager, fb.ID.String())
	requireServiceError(t, err, http.StatusForbidden)
}

func TestUpdateFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	employee := newEmployee(t, db, "E1", "M1")
	otherManager := newManager(t, db, "M2")

	fb, err := svc.Create(ctx, manager, &types.CreateFeedbackRequest{
		EmployeeID:       "E1",
		Strengths:        "s",
		AreasToImprove:   "a",
		OverallSentiment: "positive",
		AdditionalNotes:  "keep",
	})
	require.NoError(t, err)
	assert.Nil(t, fb.UpdatedAt)

	strengths := "Much stronger"
	sentiment := "NEG"
	updated, err := svc.Update(ctx, manager, fb.ID.String(), &types.UpdateFeedbackRequest{
		Strengths:        &strengths,
		OverallSentiment: &sentiment,
	})
	require.NoError(t, err)
	assert.Equal(t, "Much stronger", updated.Strengths)
	assert.Equal(t, models.SentimentNegative, updated.OverallSentiment)
	// Untouched fields survive a partial patch.
	assert.Equal(t, "a", updated.AreasToImprove)
	assert.Equal(t, "keep", updated.AdditionalNotes)
	require.NotNil(t, updated.UpdatedAt)

	_, err = svc.Update(ctx, employee, fb.ID.String(), &types.UpdateFeedbackRequest{Strengths: &strengths})
	requireServiceError(t, err, http.StatusForbidden)

	_, err = svc.Update(ctx, otherManager, fb.ID.String(), &types.UpdateFeedbackRequest{Strengths: &strengths})
	requireServiceError(t, err, http.StatusForbidden)
}

func TestAcknowledgeFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	employee := newEmployee(t, db, "E1", "M1")
	stranger := newEmployee(t, db, "E2", "M2")

	fb, err := svc.Create(ctx, manager, &types.CreateFeedbackRequest{
		EmployeeID:       "E1",
		Strengths:        "s",
		AreasToImprove:   "a",
		OverallSentiment: "positive",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Acknowledge(ctx, employee, fb.ID.String()))

	got, err := svc.Get(ctx, employee, fb.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsAcknowledged)
	require.NotNil(t, got.AcknowledgedAt)
	first := *got.AcknowledgedAt

	// A repeat acknowledgement succeeds and moves the timestamp forward.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, svc.Acknowledge(ctx, employee, fb.ID.String()))
	got, err = svc.Get(ctx, employee, fb.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got.AcknowledgedAt)
	assert.True(t, got.AcknowledgedAt.After(first))

	// Managers are refused before the record is even loaded.
	err = svc.Acknowledge(ctx, manager, "not-a-uuid")
	requireServiceError(t, err, http.StatusForbidden)

	err = svc.Acknowledge(ctx, stranger, fb.ID.String())
	requireServiceError(t, err, http.StatusForbidden)
}

func TestDeleteFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeedbackService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	employee := newEmployee(t, db, "E1", "M1")
	otherManager := newManager(t, db, "M2")

	fb, err := svc.Create(ctx, manager, &types.CreateFeedbackRequest{
		EmployeeID:       "E1",
		Strengths:        "s",
		AreasToImprove:   "a",
		OverallSentiment: "positive",
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, employee, fb.ID.String())
	requireServiceError(t, err, http.StatusForbidden)

	err = svc.Delete(ctx, otherManager, fb.ID.String())
	requireServiceError(t, err, http.StatusForbidden)

	require.NoError(t, svc.Delete(ctx, manager, fb.ID.String()))
	_, err = svc.Get(ctx, manager, fb.ID.String())
	requireServiceError(t, err, http.StatusNotFound)
}
