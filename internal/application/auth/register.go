package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kolevkaloyan/jira-clone/internal/application/ports"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

type SignupInput struct {
	Email    string
	Password string
	FullName string
}

// Signup creates an active account and logs it in.
type Signup struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	sessions *SessionIssuer
}

func NewSignup(users ports.UserRepository, hasher ports.PasswordHasher, sessions *SessionIssuer) *Signup {
	return &Signup{users: users, hasher: hasher, sessions: sessions}
}

func (uc *Signup) Execute(ctx context.Context, input SignupInput) (*Session, error) {
	email := domain.NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	var issues []domerrors.FieldIssue
	if !emailRegex.MatchString(email) {
		issues = append(issues, domerrors.FieldIssue{Field: "email", Message: "must be a valid email"})
	}
	if n := len(input.Password); n < MinPasswordLength || n > MaxPasswordLength {
		issues = append(issues, domerrors.FieldIssue{Field: "password", Message: "must be between 8 and 128 characters"})
	}
	if fullName == "" {
		issues = append(issues, domerrors.FieldIssue{Field: "fullName", Message: "is required"})
	}
	if len(issues) > 0 {
		return nil, domerrors.Validation(issues)
	}
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.sessions.Issue(ctx, user)
}
