package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/repositories"
	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/event"
)

const minPasswordLength = 6

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db)}
}

type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Session is what signup and login hand back to the client.
type Session struct {
	User  models.User
	Token string
}

// PasswordResetRequested is the payload of EventPasswordReset.
type PasswordResetRequested struct {
	UserID uint
	Email  string
	Name   string
	Token  string
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if first == "" || last == "" || email == "" || in.Password == "" {
		return Session{}, BadRequest("All fields are required")
	}
	if len(in.Password) < minPasswordLength {
		return Session{}, BadRequest("Password must be at least 6 characters long")
	}

	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, Conflict("User with this email already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	user := models.User{Email: email, Password: hash, Name: first + " " + last, Role: models.RoleUser}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Session{}, Conflict("User with this email already exists")
		}
		return Session{}, err
	}
	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, BadRequest("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return Session{}, Unauthorized("Invalid credentials")
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return Session{}, Unauthorized("Invalid credentials")
	}
	return s.session(user)
}

func (s *AuthService) session(user models.User) (Session, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token}, nil
}

// Me loads the user behind a verified token.
func (s *AuthService) Me(ctx context.Context, id uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, NotFound("User not found")
	}
	return user, err
}

// ForgotPassword fires EventPasswordReset when email belongs to a user.
// Unknown addresses succeed silently so the endpoint cannot probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return BadRequest("Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := auth.GenerateResetToken(user.ID, user.Email, user.Password)
	if err != nil {
		return err
	}
	event.FireAsync(ctx, EventPasswordReset, PasswordResetRequested{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Token:  token,
	})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return BadRequest("Token and password are required")
	}
	if len(password) < minPasswordLength {
		return BadRequest("Password must be at least 6 characters long")
	}
	claims, err := auth.ValidateResetToken(token)
	if err != nil {
		return BadRequest("Invalid or expired reset token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return BadRequest("Invalid or expired reset token")
	}
	if err != nil {
		return err
	}
	// a token is spent once the hash it was stamped with is replaced
	if !claims.MatchesPassword(user.Password) {
		return BadRequest("Invalid or expired reset token")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	swapped, err := s.users.SwapPassword(ctx, user.ID, user.Password, hash)
	if err != nil {
		return err
	}
	if !swapped {
		return BadRequest("Invalid or expired reset token")
	}
	return nil
}

// EnsureAdmin creates an ADMIN user, or promotes and re-passwords an
// existing one with the same email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, name, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, BadRequest("Email and password are required")
	}
	if len(password) < minPasswordLength {
		return models.User{}, BadRequest("Password must be at least 6 characters long")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		if name == "" {
			name = "Studio Admin"
		}
		user = models.User{Email: email, Name: name, Password: hash, Role: models.RoleAdmin}
		return user, s.users.Create(ctx, &user)
	case err != nil:
		return models.User{}, err
	}

	user.Role = models.RoleAdmin
	user.Password = hash
	if name != "" {
		user.Name = name
	}
	return user, s.users.Save(ctx, &user)
}
