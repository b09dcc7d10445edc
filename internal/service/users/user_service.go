package users

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/auth"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Type        domain.UserType
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	UserType    domain.UserType
	UserID      int64
}

type UserService struct {
	repo   repository.UserRepository
	tokens TokenIssuer
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" {
		return nil, domain.Validationf("username and email are required")
	}
	if len(input.Password) < 6 {
		return nil, domain.Validationf("password must be at least 6 characters")
	}
	userType := input.Type
	if userType == "" {
		userType = domain.UserTypeUser
	}
	if userType != domain.UserTypeUser && userType != domain.UserTypeAdmin {
		return nil, domain.Validationf("unknown user type %q", input.Type)
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflictf("username or email already registered")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  input.PhoneNumber,
		Type:         userType,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Validationf("invalid credentials")
		}
		return nil, err
	}
	if !user.Active || !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, domain.Validationf("invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		UserType:    user.Type,
		UserID:      user.ID,
	}, nil
}

var _ UserUseCase = (*UserService)(nil)
