// Package service fachadas de dominio sobre el APIClient. No reintentan ni
// reclasifican errores: lo que devuelve el transporte llega intacto al llamador.
package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/application/session"
	"github.com/jhoicas/idcr-client/internal/domain"
)

var _ session.Authenticator = (*AuthService)(nil)

// AuthService login, registro y perfil.
type AuthService struct {
	api ports.APIClient
}

func NewAuthService(api ports.APIClient) *AuthService {
	return &AuthService{api: api}
}

// Login POST /login. No toca la sesión: eso lo hace session.Manager.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := s.api.Do(ctx, ports.Request{Method: "POST", Path: "/login", JSON: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register POST /register. Todos los campos son obligatorios.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Department = strings.TrimSpace(req.Department)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		return nil, domain.NewValidationError("email", "email inválido", domain.ErrInvalidInput)
	case len(req.Password) < 6:
		return nil, domain.NewValidationError("password", "mínimo 6 caracteres", domain.ErrInvalidInput)
	case req.FullName == "":
		return nil, domain.NewValidationError("full_name", "requerido", domain.ErrInvalidInput)
	case req.Department == "":
		return nil, domain.NewValidationError("department", "requerido", domain.ErrInvalidInput)
	}
	var out dto.RegisterResponse
	if err := s.api.Do(ctx, ports.Request{Method: "POST", Path: "/register", JSON: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me GET /me.
func (s *AuthService) Me(ctx context.Context) (*dto.UserProfile, error) {
	var out dto.UserProfile
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// escapeID valida y escapa un identificador para usarlo como segmento de ruta.
func escapeID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.NewValidationError(field, "requerido", domain.ErrInvalidInput)
	}
	return url.PathEscape(id), nil
}
