package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService logs in staff and portal customers and issues session tokens
type AuthService struct {
	userRepo     *repository.UserRepository
	customerRepo *repository.CustomerRepository
	tokens       *auth.TokenManager
	logger       *zap.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	customerRepo *repository.CustomerRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		tokens:       tokens,
		logger:       logger,
	}
}

// Login authenticates a staff account
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("rejected staff login", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	return s.issue(&auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
	})
}

// PortalLogin authenticates a customer with portal access
func (s *AuthService) PortalLogin(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if !customer.IsActive || !auth.CheckPassword(customer.PortalPasswordHash, req.Password) {
		s.logger.Info("rejected portal login", zap.Int64("customer_id", customer.ID))
		return nil, ErrInvalidCredentials
	}

	customerID := customer.ID
	return s.issue(&auth.UserContext{
		UserID:      customer.ID,
		DisplayName: customer.DisplayName(),
		Email:       customer.Email,
		Role:        domain.RoleCustomer,
		CustomerID:  &customerID,
	})
}

func (s *AuthService) issue(user *auth.UserContext) (*domain.LoginResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      sessionUser(user),
	}, nil
}

// Me describes the session in ctx
func (s *AuthService) Me(ctx context.Context) (*domain.SessionUserDTO, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	dto := sessionUser(user)
	return &dto, nil
}

func sessionUser(user *auth.UserContext) domain.SessionUserDTO {
	return domain.SessionUserDTO{
		ID:         user.UserID,
		Name:       user.DisplayName,
		Email:      user.Email,
		Role:       user.Role,
		CustomerID: user.CustomerID,
	}
}

// EnsureAdmin creates or refreshes the bootstrap administrator. It does
// nothing when email or password is empty.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Email:        email,
		DisplayName:  valueOr(name, "Administrator"),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}

	s.logger.Info("admin user ensured", zap.String("email", email))
	return nil
}

// CreateUser adds a staff account
func (s *AuthService) CreateUser(ctx context.Context, email, password, name string, role domain.UserRole) (*domain.UserDTO, error) {
	if role != domain.RoleAdmin && role != domain.RoleStaff {
		return nil, fmt.Errorf("%w: role must be admin or staff", ErrInvalidInput)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Email: email, DisplayName: name, PasswordHash: hash, Role: role, IsActive: true}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// ListUsers returns all staff accounts
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}
