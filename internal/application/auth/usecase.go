package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/domain/entity"
	"github.com/jhoicas/ventas-dashboard/internal/domain/repository"
	"github.com/jhoicas/ventas-dashboard/pkg/jwt"
)

// SessionConfig configuración para la emisión del token de sesión.
type SessionConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de usuarios y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	cfg      SessionConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, cfg SessionConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, cfg: cfg, now: time.Now}
}

// RegisterUser hashea la contraseña con bcrypt e inserta el usuario si el username no existe.
// Un username repetido no es error: Created=false y no se modifica nada.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.CreateUserRequest) (*dto.CreateUserResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña no pueden estar vacíos", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hashear contraseña: %w", err)
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    uc.now(),
	}
	created, err := uc.userRepo.CreateIfNotExists(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth: crear usuario: %w", err)
	}
	return &dto.CreateUserResult{Username: username, Created: created}, nil
}

// Login verifica username/password y emite el token de sesión.
// Usuario inexistente y contraseña incorrecta devuelven errores distintos; el handler los unifica.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.cfg.Secret, user.Username, uc.cfg.Issuer, uc.cfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("auth: generar token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		Username:  user.Username,
		ExpiresAt: uc.now().Add(time.Duration(uc.cfg.ExpMinutes) * time.Minute),
	}, nil
}

// Authenticate valida un token de sesión y devuelve el username.
func (uc *AuthUseCase) Authenticate(token string) (string, error) {
	username, err := jwt.Parse(uc.cfg.Secret, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return username, nil
}
