package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teampulse/feedback-backend/internal/models"
	"github.com/teampulse/feedback-backend/internal/types"
)

// recentWindow is the lookback used by the stats endpoint.
const recentWindow = 30 * 24 * time.Hour

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

func emptyDistribution() map[string]int {
	return map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNeutral:  0,
		models.SentimentNegative: 0,
	}
}

type memberAggregate struct {
	count  int
	latest *time.Time
	dist   map[string]int
}

// Manager builds the manager dashboard: team roster stats plus overall
// sentiment trends over the feedback the caller has given. Feedback is
// grouped by employee in a single pass, so trends only count rows belonging
// to a current active team member while total_feedback_given counts all of
// the caller's rows.
func (s *DashboardService) Manager(ctx context.Context, user *models.User) (*types.ManagerDashboard, error) {
	if !user.IsManager() {
		return nil, forbidden("Only managers can access this dashboard")
	}

	var team []models.User
	err := s.db.WithContext(ctx).
		Where("manager_id = ? AND role = ? AND is_active = ?",
			user.EmployeeID, models.RoleEmployee, true).
		Find(&team).Error
	if err != nil {
		return nil, err
	}

	var given []models.Feedback
	err = s.db.WithContext(ctx).
		Where("manager_id = ?", user.EmployeeID).
		Find(&given).Error
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string]*memberAggregate, len(team))
	for _, fb := range given {
		agg := byEmployee[fb.EmployeeID]
		if agg == nil {
			agg = &memberAggregate{dist: emptyDistribution()}
			byEmployee[fb.EmployeeID] = agg
		}
		agg.count++
		agg.dist[models.NormalizeSentiment(fb.OverallSentiment)]++
		if agg.latest == nil || fb.CreatedAt.After(*agg.latest) {
			created := fb.CreatedAt
			agg.latest = &created
		}
	}

	trends := emptyDistribution()
	stats := make([]types.TeamMemberStats, 0, len(team))
	for _, member := range team {
		entry := types.TeamMemberStats{
			EmployeeID:            member.EmployeeID,
			FullName:              member.FullName,
			SentimentDistribution: emptyDistribution(),
		}
		if agg := byEmployee[member.EmployeeID]; agg != nil {
			entry.FeedbackCount = agg.count
			entry.LatestFeedbackDate = agg.latest
			entry.SentimentDistribution = agg.dist
			for sentiment, n := range agg.dist {
				trends[sentiment] += n
			}
		}
		stats = append(stats, entry)
	}

	var activeForms int64
	err = s.db.WithContext(ctx).Model(&models.FeedbackForm{}).
		Where("manager_id = ? AND is_active = ?", user.EmployeeID, true).
		Count(&activeForms).Error
	if err != nil {
		return nil, err
	}

	var formSubmissions int64
	err = s.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("manager_id = ? AND form_id IS NOT NULL", user.EmployeeID).
		Count(&formSubmissions).Error
	if err != nil {
		return nil, err
	}

	return &types.ManagerDashboard{
		TeamSize:             len(team),
		TotalFeedbackGiven:   len(given),
		TeamMembers:          stats,
		SentimentTrends:      trends,
		ActiveFormsCount:     activeForms,
		FormSubmissionsCount: formSubmissions,
	}, nil
}

// Employee builds the employee dashboard over the caller's received
// feedback, newest first.
func (s *DashboardService) Employee(ctx context.Context, user *models.User) (*types.EmployeeDashboard, error) {
	if user.IsManager() {
		return nil, forbidden("Only employees can access this dashboard")
	}

	var received []models.Feedback
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", user.EmployeeID).
		Order("created_at DESC").
		Find(&received).Error
	if err != nil {
		return nil, err
	}

	unacknowledged := 0
	distribution := emptyDistribution()
	for _, fb := range received {
		if !fb.IsAcknowledged {
			unacknowledged++
		}
		distribution[models.NormalizeSentiment(fb.OverallSentiment)]++
	}

	var availableForms int64
	if user.ManagerID != nil && *user.ManagerID != "" {
		err = s.db.WithContext(ctx).Model(&models.FeedbackForm{}).
			Where("manager_id = ? AND is_active = ?", *user.ManagerID, true).
			Count(&availableForms).Error
		if err != nil {
			return nil, err
		}
	}

	recent := received
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for i := range recent {
		recent[i].Normalize()
	}

	return &types.EmployeeDashboard{
		TotalFeedbackReceived: len(received),
		UnacknowledgedCount:   unacknowledged,
		RecentFeedback:        recent,
		SentimentDistribution: distribution,
		AvailableFormsCount:   availableForms,
	}, nil
}

// Stats returns the compact role-specific summary with a fixed 30-day
// lookback for the recent-feedback counter.
func (s *DashboardService) Stats(ctx context.Context, user *models.User) (any, error) {
	cutoff := time.Now().UTC().Add(-recentWindow)

	if user.IsManager() {
		var teamSize, total, recent int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("manager_id = ? AND role = ? AND is_active = ?",
				user.EmployeeID, models.RoleEmployee, true).
			Count(&teamSize).Error
		if err != nil {
			return nil, err
		}
		err = s.db.WithContext(ctx).Model(&models.Feedback{}).
			Where("manager_id = ?", user.EmployeeID).
			Count(&total).Error
		if err != nil {
			return nil, err
		}
		err = s.db.WithContext(ctx).Model(&models.Feedback{}).
			Where("manager_id = ? AND created_at >= ?", user.EmployeeID, cutoff).
			Count(&recent).Error
		if err != nil {
			return nil, err
		}
		return &types.ManagerStats{
			Role:                models.RoleManager,
			TeamSize:            teamSize,
			TotalFeedbackGiven:  total,
			RecentFeedbackCount: recent,
		}, nil
	}

	var total, unacknowledged, recent int64
	err := s.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("employee_id = ?", user.EmployeeID).
		Count(&total).Error
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("employee_id = ? AND is_acknowledged = ?", user.EmployeeID, false).
		Count(&unacknowledged).Error
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("employee_id = ? AND created_at >= ?", user.EmployeeID, cutoff).
		Count(&recent).Error
	if err != nil {
		return nil, err
	}
	return &types.EmployeeStats{
		Role:                  models.RoleEmployee,
		TotalFeedbackReceived: total,
		UnacknowledgedCount:   unacknowledged,
		RecentFeedbackCount:   recent,
	}, nil
}
