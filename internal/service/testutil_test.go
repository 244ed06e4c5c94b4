package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/teampulse/feedback-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Feedback{},
		&models.FeedbackForm{},
	))
	return db
}

func newManager(t *testing.T, db *gorm.DB, employeeID string) *models.User {
	t.Helper()
	user := models.User{
		Email:        employeeID + "@example.com",
		PasswordHash: "x",
		FullName:     "Manager " + employeeID,
		Role:         models.RoleManager,
		EmployeeID:   employeeID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func newEmployee(t *testing.T, db *gorm.DB, employeeID, managerID string) *models.User {
	t.Helper()
	user := models.User{
		Email:        employeeID + "@example.com",
		PasswordHash: "x",
		FullName:     "Employee " + employeeID,
		Role:         models.RoleEmployee,
		EmployeeID:   employeeID,
		ManagerID:    &managerID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func requireServiceError(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	svcErr, ok := err.(*Error)
	require.Truef(t, ok, "expected *service.Error, got %T: %v", err, err)
	require.Equal(t, status, svcErr.Status)
}
