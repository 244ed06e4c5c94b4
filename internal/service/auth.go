package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/teampulse/feedback-backend/internal/models"
	"github.com/teampulse/feedback-backend/internal/types"
)

// TokenTTL is the lifetime of an access token and of the auth cookie.
const TokenTTL = 30 * time.Minute

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new account. Email and employee_id must be unique; an
// employee's manager_id must reference an existing manager. A manager never
// stores a manager_id.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, badRequest("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Where("employee_id = ?", req.EmployeeID).First(&existing).Error; err == nil {
		return nil, badRequest("Employee ID already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	managerID := req.ManagerID
	if req.Role == models.RoleEmployee && managerID != nil && *managerID != "" {
		var manager models.User
		err := s.db.WithContext(ctx).
			Where("employee_id = ? AND role = ?", *managerID, models.RoleManager).
			First(&manager).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, badRequest("Invalid manager ID")
		}
		if err != nil {
			return nil, err
		}
	}
	if req.Role == models.RoleManager {
		managerID = nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		EmployeeID:   req.EmployeeID,
		Department:   req.Department,
		ManagerID:    managerID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", unauthorized("Incorrect email or password")
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", unauthorized("Incorrect email or password")
	}
	if !user.IsActive {
		return nil, "", unauthorized("Account is deactivated")
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GenerateToken issues a signed access token for the user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID: user.ID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, unauthorized("Could not validate credentials")
	}
	if !token.Valid {
		return nil, unauthorized("Could not validate credentials")
	}
	if claims.UserID == uuid.Nil {
		if sub := claims.Subject; sub != "" {
			id, err := uuid.Parse(sub)
			if err != nil {
				return nil, unauthorized("Could not validate credentials")
			}
			claims.UserID = id
		} else {
			return nil, unauthorized("Could not validate credentials")
		}
	}
	return claims, nil
}

// GetUser loads a user by primary key.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unauthorized("Could not validate credentials")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// TeamMembers lists the caller's active direct reports. Manager-only.
func (s *AuthService) TeamMembers(ctx context.Context, user *models.User) ([]models.User, error) {
	if !user.IsManager() {
		return nil, forbidden("Only managers can view team members")
	}
	var members []models.User
	err := s.db.WithContext(ctx).
		Where("manager_id = ? AND role = ? AND is_active = ?",
			user.EmployeeID, models.RoleEmployee, true).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Managers lists every manager as a label/value pair for the registration
// form's manager picker.
func (s *AuthService) Managers(ctx context.Context) ([]types.ManagerOption, error) {
	var managers []models.User
	err := s.db.WithContext(ctx).Where("role = ?", models.RoleManager).Find(&managers).Error
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 {
		return nil, notFound("No managers found")
	}
	options := make([]types.ManagerOption, len(managers))
	for i, m := range managers {
		options[i] = types.ManagerOption{Label: m.FullName, Value: m.EmployeeID}
	}
	return options, nil
}
