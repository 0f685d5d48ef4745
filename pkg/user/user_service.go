package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"recipe-share/domain"
	"recipe-share/entities"
	"recipe-share/internal/utils/mailing"
	"recipe-share/pkg/jwt"
	"recipe-share/pkg/password"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error)
		// VerifyCredentials returns nil, nil for an unknown email and for a
		// wrong password alike.
		VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
		GetByEmail(ctx context.Context, email string) (*domain.User, error)
		UpdateProfile(ctx context.Context, userID uuid.UUID, req domain.UpdateUserRequest) (domain.User, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return domain.User{}, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}

	existing, err := s.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if existing != nil {
		return domain.User{}, domain.ErrDuplicateEmail
	}

	hashed, err := password.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now()
	user := &entities.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: hashed,
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("creating user: %w", err)
	}

	if err := s.mailer.SendMail(user.Email, mailing.WelcomeSubject, mailing.WelcomeBody(user.Username)); err != nil {
		log.Errorf("sending welcome mail to %s: %v", user.Email, err)
	}

	return toDomainUser(user), nil
}

func (s *userService) VerifyCredentials(ctx context.Context, email, plain string) (*domain.User, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := password.CheckPassword(plain, user.Password); err != nil {
		return nil, nil
	}

	res := toDomainUser(user)
	return &res, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID, domain.RoleUser)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	res := toDomainUser(user)
	return &res, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	res := toDomainUser(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req domain.UpdateUserRequest) (domain.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := validateUsername(username); err != nil {
			return domain.User{}, err
		}
		user.Username = username
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return domain.User{}, fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
		}
		if email != user.Email {
			existing, err := s.GetByEmail(ctx, email)
			if err != nil {
				return domain.User{}, err
			}
			if existing != nil {
				return domain.User{}, domain.ErrDuplicateEmail
			}
			user.Email = email
		}
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	return toDomainUser(user), nil
}

func validateUsername(username string) error {
	if utf8.RuneCountInString(username) < domain.MinUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters", domain.ErrValidation, domain.MinUsernameLength)
	}
	return nil
}

func toDomainUser(user *entities.User) domain.User {
	saved := make([]string, len(user.SavedRecipeIDs))
	copy(saved, user.SavedRecipeIDs)
	return domain.User{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		SavedRecipeIDs: saved,
		CreatedAt:      user.CreatedAt,
	}
}
