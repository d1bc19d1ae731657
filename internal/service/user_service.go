package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"job-portal/internal/auth"
	"job-portal/internal/domain"
	"job-portal/internal/mailer"
	"job-portal/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering with an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCode indicates a wrong or expired verification code.
	ErrInvalidCode = errors.New("invalid or expired verification code")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]{5,}$`)
	wordsPattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
)

// Registration carries the fields needed to complete a verified registration.
type Registration struct {
	Email    string
	Code     string
	Name     string
	Password string
	Role     domain.Role
	Position string
	Contact  string
}

// UserService is the credential issuer and people directory: login, the
// two-step email-verified registration, password reset, and user lookups.
type UserService interface {
	Login(ctx context.Context, email, password string) (string, error)
	SendVerification(ctx context.Context, email string) error
	CheckCode(ctx context.Context, email, code string) error
	Register(ctx context.Context, reg Registration) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	ListEmployees(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	users     repository.UserRepository
	codes     repository.VerificationRepository
	mail      mailer.Sender
	jwtSecret string
	tokenTTL  time.Duration
	codeTTL   time.Duration
}

func NewUserService(users repository.UserRepository, codes repository.VerificationRepository, mail mailer.Sender, jwtSecret string, tokenTTL time.Duration) UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &userService{
		users:     users,
		codes:     codes,
		mail:      mail,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		codeTTL:   10 * time.Minute,
	}
}

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *userService) SendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return errors.New("a valid email address is required")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	expiresAt := time.Now().Add(s.codeTTL).Unix()
	if err := s.codes.Put(ctx, email, code, expiresAt); err != nil {
		return err
	}

	s.mail.Enqueue(mailer.Message{
		To:      email,
		Subject: "Your verification code",
		Body:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.codeTTL.Minutes())),
	})
	return nil
}

func (s *userService) CheckCode(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return ErrInvalidCode
	}

	stored, expiresAt, err := s.codes.Get(ctx, email)
	if err != nil {
		return ErrInvalidCode
	}
	if time.Now().Unix() > expiresAt {
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrInvalidCode
	}
	return nil
}

func (s *userService) Register(ctx context.Context, reg Registration) (string, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Position = strings.TrimSpace(reg.Position)

	if err := s.CheckCode(ctx, reg.Email, reg.Code); err != nil {
		return "", err
	}
	if !namePattern.MatchString(reg.Name) {
		return "", errors.New("name must be at least 5 characters and contain only letters")
	}
	if len(reg.Password) < 6 {
		return "", errors.New("password must be at least 6 characters")
	}
	if !reg.Role.Valid() {
		return "", errors.New("role must be jobseeker or employer")
	}
	if reg.Role == domain.RoleJobSeeker && !wordsPattern.MatchString(reg.Position) {
		return "", errors.New("desired position must contain only letters")
	}
	if reg.Role == domain.RoleEmployer {
		reg.Position = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        reg.Email,
		Name:         reg.Name,
		PasswordHash: string(hash),
		Role:         reg.Role,
		Position:     reg.Position,
		Contact:      reg.Contact,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return "", ErrUserAlreadyExists
		}
		return "", err
	}

	_ = s.codes.Delete(ctx, reg.Email)
	return s.issueToken(user)
}

func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		// Do not reveal whether the account exists.
		return nil
	}
	return s.SendVerification(ctx, email)
}

func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.CheckCode(ctx, email, code); err != nil {
		return err
	}
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	return s.codes.Delete(ctx, email)
}

func (s *userService) ListEmployees(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListByRole(ctx, domain.RoleJobSeeker)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = *sanitizeUser(&users[i])
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &auth.Claims{
		UserID:   user.ID,
		Role:     user.Role,
		Name:     user.Name,
		Position: user.Position,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Position:  user.Position,
		Contact:   user.Contact,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
