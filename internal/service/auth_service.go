package service

import (
	"context"
	"errors"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store  repository.Store
	tokens *TokenManager
	stats  StatsInvalidator
	cost   int
}

func NewAuthService(store repository.Store, tokens *TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithStats drops cached aggregates when a user registers.
func (s *AuthService) WithStats(stats StatsInvalidator) *AuthService {
	s.stats = stats
	return s
}

// WithHashCost lowers the bcrypt cost, mostly for tests.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Validation("Todos los campos son requeridos")
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, domain.Conflict("El email ya está registrado")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Name: in.Name, Email: in.Email, PasswordHash: string(hash)}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	invalidate(ctx, s.stats)

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.Validation("Email y contraseña son requeridos")
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("Credenciales inválidas")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.Unauthorized("Credenciales inválidas")
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

// Authenticate resolves a bearer token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("Usuario no encontrado")
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) ParseToken(token string) (int64, error) {
	return s.tokens.ParseToken(token)
}
