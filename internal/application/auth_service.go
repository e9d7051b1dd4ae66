package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/feedwire/feedwire/internal/domain/entity"
	"github.com/feedwire/feedwire/internal/domain/repository"
	"github.com/feedwire/feedwire/pkg/helpers"
	"github.com/feedwire/feedwire/pkg/mailer"
)

// AuthService holds signup, login, and status rules. Both the REST
// handlers and the GraphQL resolvers call into it so the rules exist in
// exactly one place.
type AuthService struct {
	Users    repository.UserRepository
	JWT      *helpers.JWTManager
	Pub      *helpers.RabbitPublisher
	Logger   *logrus.Logger
	validate *validator.Validate
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		JWT:      jwt,
		Pub:      pub,
		Logger:   logger,
		validate: validator.New(),
	}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// Signup validates the input, stores the user with a hashed password, and
// queues the welcome email. The email job is best-effort.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	var fields []FieldError
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if s.validate.Var(in.Email, "required,email") != nil {
		fields = append(fields, FieldError{Field: "email", Message: "Please enter a valid email."})
	}
	if len(strings.TrimSpace(in.Password)) < 5 {
		fields = append(fields, FieldError{Field: "password", Message: "password is too short."})
	}
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name must not be empty."})
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields...)
	}

	if existing, err := s.Users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, newValidationError(FieldError{Field: "email", Message: "E-Mail address already exists!"})
	}

	hash, err := helpers.HashPassword(strings.TrimSpace(in.Password))
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:    in.Email,
		Password: hash,
		Name:     strings.TrimSpace(in.Name),
		Status:   entity.DefaultStatus,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, newValidationError(FieldError{Field: "email", Message: "E-Mail address already exists!"})
		}
		return nil, err
	}

	s.queueWelcomeEmail(ctx, u)
	return u, nil
}

func (s *AuthService) queueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{To: u.Email, Subject: "Welcome to feedwire", Name: u.Name}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Pub.PublishJSON(c, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Warn("welcome email enqueue failed")
	}
}

type LoginResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"-"`
}

// Login verifies credentials and issues a fresh bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.IssueToken(u.ID.Hex(), u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, UserID: u.ID.Hex(), ExpiresAt: exp}, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetStatus returns the caller's status line.
func (s *AuthService) GetStatus(ctx context.Context, userID string) (string, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Status, nil
}

// UpdateStatus replaces the caller's status line.
func (s *AuthService) UpdateStatus(ctx context.Context, userID, status string) (*entity.User, error) {
	if strings.TrimSpace(status) == "" {
		return nil, newValidationError(FieldError{Field: "status", Message: "status must not be empty."})
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Users.UpdateStatus(ctx, u.ID.Hex(), strings.TrimSpace(status)); err != nil {
		return nil, err
	}
	u.Status = strings.TrimSpace(status)
	return u, nil
}
