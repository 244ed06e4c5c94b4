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

func TestManagerDashboard(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	forms := NewFormService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	alice := newEmployee(t, db, "E1", "M1")
	newEmployee(t, db, "E2", "M1")
	departed := newEmployee(t, db, "E3", "M1")
	require.NoError(t, db.Model(departed).Update("is_active", false).Error)

	now := time.Now().UTC()
	create := func(employeeID, sentiment string, age time.Duration) {
		require.NoError(t, db.Create(&models.Feedback{
			EmployeeID:       employeeID,
			ManagerID:        "M1",
			Strengths:        "s",
			AreasToImprove:   "a",
			OverallSentiment: sentiment,
			CreatedAt:        now.Add(-age),
		}).Error)
	}
	create("E1", "POS", 48*time.Hour)
	create("E1", "neg", 24*time.Hour)
	create("E2", "neutral", time.Hour)
	// Feedback for the deactivated report counts toward the total but not
	// toward the trends.
	create("E3", "positive", time.Hour)

	active := seedForm(t, forms, manager, "Active", []models.FormField{{Label: "X", Type: models.FieldText}})
	draft := seedForm(t, forms, manager, "Draft", []models.FormField{{Label: "Y", Type: models.FieldText}})
	off := false
	_, err := forms.Update(ctx, manager, draft.ID.String(), &types.UpdateFormRequest{IsActive: &off})
	require.NoError(t, err)

	_, err = forms.Submit(ctx, alice, active.ID.String(), map[string]any{"x": "ok"})
	require.NoError(t, err)

	dash, err := svc.Manager(ctx, manager)
	require.NoError(t, err)

	assert.Equal(t, 2, dash.TeamSize)
	assert.Equal(t, 5, dash.TotalFeedbackGiven)
	assert.Equal(t, int64(1), dash.ActiveFormsCount)
	assert.Equal(t, int64(1), dash.FormSubmissionsCount)
	require.Len(t, dash.TeamMembers, 2)

	byID := map[string]types.TeamMemberStats{}
	for _, m := range dash.TeamMembers {
		byID[m.EmployeeID] = m
	}
	require.Contains(t, byID, "E1")
	require.Contains(t, byID, "E2")
	assert.Equal(t, 3, byID["E1"].FeedbackCount)
	assert.Equal(t, 1, byID["E2"].FeedbackCount)
	require.NotNil(t, byID["E1"].LatestFeedbackDate)
	assert.Equal(t, 1, byID["E1"].SentimentDistribution[models.SentimentPositive])
	assert.Equal(t, 1, byID["E1"].SentimentDistribution[models.SentimentNegative])
	assert.Equal(t, 1, byID["E2"].SentimentDistribution[models.SentimentNeutral])

	// Trends are the sum of the per-member distributions.
	want := map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNeutral:  0,
		models.SentimentNegative: 0,
	}
	for _, m := range dash.TeamMembers {
		for sentiment, n := range m.SentimentDistribution {
			want[sentiment] += n
		}
	}
	assert.Equal(t, want, dash.SentimentTrends)
	assert.Equal(t, 1, dash.SentimentTrends[models.SentimentPositive])
	assert.Equal(t, 2, dash.SentimentTrends[models.SentimentNeutral])
	assert.Equal(t, 1, dash.SentimentTrends[models.SentimentNegative])

	_, err = svc.Manager(ctx, alice)
	requireServiceError(t, err, http.StatusForbidden)
}

func TestEmployeeDashboard(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	forms := NewFormService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	alice := newEmployee(t, db, "E1", "M1")
	newEmployee(t, db, "E2", "M1")

	now := time.Now().UTC()
	for i := 0; i < 7; i++ {
		sentiment := "pos"
		if i%2 == 1 {
			sentiment = "NEG"
		}
		require.NoError(t, db.Create(&models.Feedback{
			EmployeeID:       "E1",
			ManagerID:        "M1",
			Strengths:        "s",
			AreasToImprove:   "a",
			OverallSentiment: sentiment,
			IsAcknowledged:   i < 2,
			CreatedAt:        now.Add(-time.Duration(i) * time.Hour),
		}).Error)
	}
	// A teammate's row never leaks in.
	require.NoError(t, db.Create(&models.Feedback{
		EmployeeID: "E2", ManagerID: "M1",
		Strengths: "s", AreasToImprove: "a",
		OverallSentiment: "positive", CreatedAt: now,
	}).Error)

	seedForm(t, forms, manager, "Check-in", []models.FormField{{Label: "X", Type: models.FieldText}})

	dash, err := svc.Employee(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 7, dash.TotalFeedbackReceived)
	assert.Equal(t, 5, dash.UnacknowledgedCount)
	assert.Equal(t, int64(1), dash.AvailableFormsCount)
	require.Len(t, dash.RecentFeedback, 5)
	// Newest first, sentiments canonicalized.
	assert.True(t, dash.RecentFeedback[0].CreatedAt.After(dash.RecentFeedback[4].CreatedAt))
	assert.Equal(t, models.SentimentPositive, dash.RecentFeedback[0].OverallSentiment)
	assert.Equal(t, 4, dash.SentimentDistribution[models.SentimentPositive])
	assert.Equal(t, 3, dash.SentimentDistribution[models.SentimentNegative])
	assert.Equal(t, 0, dash.SentimentDistribution[models.SentimentNeutral])

	_, err = svc.Employee(ctx, manager)
	requireServiceError(t, err, http.StatusForbidden)
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	ctx := context.Background()

	manager := newManager(t, db, "M1")
	alice := newEmployee(t, db, "E1", "M1")

	now := time.Now().UTC()
	create := func(acknowledged bool, age time.Duration) {
		require.NoError(t, db.Create(&models.Feedback{
			EmployeeID:       "E1",
			ManagerID:        "M1",
			Strengths:        "s",
			AreasToImprove:   "a",
			OverallSentiment: "neutral",
			IsAcknowledged:   acknowledged,
			CreatedAt:        now.Add(-age),
		}).Error)
	}
	create(true, time.Hour)
	create(false, 10*24*time.Hour)
	create(false, 45*24*time.Hour) // outside the 30-day window

	got, err := svc.Stats(ctx, manager)
	require.NoError(t, err)
	managerStats, ok := got.(*types.ManagerStats)
	require.True(t, ok)
	assert.Equal(t, models.RoleManager, managerStats.Role)
	assert.Equal(t, int64(1), managerStats.TeamSize)
	assert.Equal(t, int64(3), managerStats.TotalFeedbackGiven)
	assert.Equal(t, int64(2), managerStats.RecentFeedbackCount)

	got, err = svc.Stats(ctx, alice)
	require.NoError(t, err)
	employeeStats, ok := got.(*types.EmployeeStats)
	require.True(t, ok)
	assert.Equal(t, models.RoleEmployee, employeeStats.Role)
	assert.Equal(t, int64(3), employeeStats.TotalFeedbackReceived)
	assert.Equal(t, int64(2), employeeStats.UnacknowledgedCount)
	assert.Equal(t, int64(2), employeeStats.RecentFeedbackCount)
}
