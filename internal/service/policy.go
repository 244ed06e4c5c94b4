package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/teampulse/feedback-backend/internal/models"
)

// The authorization policy. Collection reads are restricted by a scope
// filter derived from the caller's role; single-record mutations are
// checked against ownership after the record is loaded. Both halves live
// here so every handler goes through the same contract.

// FeedbackScope is the query predicate limiting which feedback rows a
// caller may see. Empty fields are not applied.
type FeedbackScope struct {
	ManagerID  string
	EmployeeID string
}

// Apply narrows a feedback query to the scope.
func (s FeedbackScope) Apply(q *gorm.DB) *gorm.DB {
	if s.ManagerID != "" {
		q = q.Where("manager_id = ?", s.ManagerID)
	}
	if s.EmployeeID != "" {
		q = q.Where("employee_id = ?", s.EmployeeID)
	}
	return q
}

// FormScope is the query predicate limiting which forms a caller may see.
type FormScope struct {
	ManagerID  string
	ActiveOnly bool
}

// Apply narrows a form query to the scope.
func (s FormScope) Apply(q *gorm.DB) *gorm.DB {
	q = q.Where("manager_id = ?", s.ManagerID)
	if s.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	return q
}

// feedbackListScope derives the feedback list filter for the caller. A
// manager sees rows they authored and may narrow to one confirmed team
// member; an employee only ever sees their own rows.
func feedbackListScope(ctx context.Context, db *gorm.DB, user *models.User, employeeID string) (FeedbackScope, error) {
	if !user.IsManager() {
		return FeedbackScope{EmployeeID: user.EmployeeID}, nil
	}
	scope := FeedbackScope{ManagerID: user.EmployeeID}
	if employeeID != "" {
		var member models.User
		err := db.WithContext(ctx).
			Where("employee_id = ? AND manager_id = ?", employeeID, user.EmployeeID).
			First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FeedbackScope{}, notFound("Employee not found in your team")
		}
		if err != nil {
			return FeedbackScope{}, err
		}
		scope.EmployeeID = employeeID
	}
	return scope, nil
}

// formListScope derives the form list filter for the caller. Employees only
// see their manager's active forms; an unmanaged employee has no scope.
func formListScope(user *models.User, activeOnly bool) (FormScope, error) {
	if user.IsManager() {
		return FormScope{ManagerID: user.EmployeeID, ActiveOnly: activeOnly}, nil
	}
	if user.ManagerID == nil || *user.ManagerID == "" {
		return FormScope{}, badRequest("Employee has no assigned manager")
	}
	return FormScope{ManagerID: *user.ManagerID, ActiveOnly: true}, nil
}

// requireManager gates manager-only operations.
func requireManager(user *models.User) error {
	if !user.IsManager() {
		return forbidden("Only managers can access this resource")
	}
	return nil
}

// requireTeamMember confirms that employeeID is a direct, employee-role
// report of the manager. Absence is indistinguishable from exclusion.
func requireTeamMember(ctx context.Context, db *gorm.DB, managerEmployeeID, employeeID string) (*models.User, error) {
	var member models.User
	err := db.WithContext(ctx).
		Where("employee_id = ? AND manager_id = ? AND role = ?",
			employeeID, managerEmployeeID, models.RoleEmployee).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Employee not found or not in your team")
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// authorizeFeedbackRead checks single-record ownership after a successful
// id lookup. Existence is revealed before the denial here; list paths
// never get this far for foreign rows.
func authorizeFeedbackRead(user *models.User, fb *models.Feedback) error {
	if user.IsManager() {
		if fb.ManagerID != user.EmployeeID {
			return forbidden("You can only view feedback you've given")
		}
		return nil
	}
	if fb.EmployeeID != user.EmployeeID {
		return forbidden("You can only view your own feedback")
	}
	return nil
}

// authorizeFeedbackWrite restricts content mutation to the authoring manager.
func authorizeFeedbackWrite(user *models.User, fb *models.Feedback, action string) error {
	if fb.ManagerID != user.EmployeeID {
		return forbidden("You can only " + action + " feedback you've given")
	}
	return nil
}

// authorizeAcknowledge restricts acknowledgement to the owning employee.
// The employee-role gate runs before the record is even loaded.
func authorizeAcknowledge(user *models.User, fb *models.Feedback) error {
	if fb.EmployeeID != user.EmployeeID {
		return forbidden("You can only acknowledge your own feedback")
	}
	return nil
}

// authorizeFormRead checks single-form visibility. An inactive form is a 404
// to an employee even though it exists and is a 200 to its owner.
func authorizeFormRead(user *models.User, form *models.FeedbackForm) error {
	if user.IsManager() {
		if form.ManagerID != user.EmployeeID {
			return forbidden("You can only view forms you've created")
		}
		return nil
	}
	if user.ManagerID == nil || form.ManagerID != *user.ManagerID {
		return forbidden("You can only view forms created by your manager")
	}
	if !form.IsActive {
		return notFound("Form not found or not active")
	}
	return nil
}

// authorizeFormWrite restricts form mutation to the owning manager.
func authorizeFormWrite(user *models.User, form *models.FeedbackForm, action string) error {
	if form.ManagerID != user.EmployeeID {
		return forbidden("You can only " + action + " forms you've created")
	}
	return nil
}
