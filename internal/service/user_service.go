package service

import (
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserListItem 管理端用户列表项
type UserListItem struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Role         model.UserRole `json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	AttemptCount int            `json:"attemptCount"`
}

type UserService struct {
	UserRepo    *repository.UserRepository
	AttemptRepo *repository.AttemptRepository
}

func NewUserService(userRepo *repository.UserRepository, attemptRepo *repository.AttemptRepository) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		AttemptRepo: attemptRepo,
	}
}

func (s *UserService) ListUsers(page, limit int) ([]UserListItem, int64, error) {
	users, total, err := s.UserRepo.List(page, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		count, err := s.AttemptRepo.CountByUser(u.ID)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, UserListItem{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			CreatedAt:    u.CreatedAt,
			AttemptCount: int(count),
		})
	}
	return items, total, nil
}

// CreateUser 管理员直接建号，可指定角色
func (s *UserService) CreateUser(name, email, password string, role model.UserRole) (*model.User, error) {
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
