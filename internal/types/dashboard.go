package types

import (
	"time"

	"github.com/teampulse/feedback-backend/internal/models"
)

// TeamMemberStats summarizes the feedback one team member has received.
type TeamMemberStats struct {
	EmployeeID            string         `json:"employee_id"`
	FullName              string         `json:"full_name"`
	FeedbackCount         int            `json:"feedback_count"`
	LatestFeedbackDate    *time.Time     `json:"latest_feedback_date,omitempty"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
}

// ManagerDashboard aggregates a manager's team and the feedback they have
// given. SentimentTrends is the sum of the per-member distributions.
type ManagerDashboard struct {
	TeamSize             int               `json:"team_size"`
	TotalFeedbackGiven   int               `json:"total_feedback_given"`
	TeamMembers          []TeamMemberStats `json:"team_members"`
	SentimentTrends      map[string]int    `json:"sentiment_trends"`
	ActiveFormsCount     int64             `json:"active_forms_count"`
	FormSubmissionsCount int64             `json:"form_submissions_count"`
}

// EmployeeDashboard aggregates the feedback an employee has received.
type EmployeeDashboard struct {
	TotalFeedbackReceived int               `json:"total_feedback_received"`
	UnacknowledgedCount   int               `json:"unacknowledged_count"`
	RecentFeedback        []models.Feedback `json:"recent_feedback"`
	SentimentDistribution map[string]int    `json:"sentiment_distribution"`
	AvailableFormsCount   int64             `json:"available_forms_count"`
}

// ManagerStats is the compact manager summary for GET /api/dashboard/stats.
type ManagerStats struct {
	Role                string `json:"role"`
	TeamSize            int64  `json:"team_size"`
	TotalFeedbackGiven  int64  `json:"total_feedback_given"`
	RecentFeedbackCount int64  `json:"recent_feedback_count"`
}

// EmployeeStats is the compact employee summary for GET /api/dashboard/stats.
type EmployeeStats struct {
	Role                  string `json:"role"`
	TotalFeedbackReceived int64  `json:"total_feedback_received"`
	UnacknowledgedCount   int64  `json:"unacknowledged_count"`
	RecentFeedbackCount   int64  `json:"recent_feedback_count"`
}
