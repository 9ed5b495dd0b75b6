package session

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain"
)

// Authenticator operaciones de auth que necesita el Manager (implementado por service.AuthService).
type Authenticator interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context) (*dto.UserProfile, error)
}

// Manager ciclo de vida de la sesión: login, logout, usuario actual.
type Manager struct {
	sess *Session
	auth Authenticator
	me   singleflight.Group
}

// NewManager construye el Manager sobre una sesión ya creada (y opcionalmente restaurada).
func NewManager(sess *Session, auth Authenticator) *Manager {
	return &Manager{sess: sess, auth: auth}
}

// Session devuelve la sesión gestionada.
func (m *Manager) Session() *Session { return m.sess }

// Login autentica y persiste token + perfil. Errores del transporte se propagan tal cual.
func (m *Manager) Login(ctx context.Context, email, password string) (*dto.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "requerido", domain.ErrInvalidInput)
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "requerida", domain.ErrInvalidInput)
	}

	resp, err := m.auth.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	token := resp.BearerToken()
	if token == "" {
		return nil, &domain.APIError{Kind: domain.KindServer, Method: "POST", Path: "/login", Message: "respuesta de login sin token"}
	}

	// Backends que no incluyen el perfil en el login: se guarda solo el token y se prueba con /me.
	if resp.User.ID == "" && resp.User.Email == "" {
		if err := m.sess.Create(ctx, token, nil); err != nil {
			return nil, err
		}
		return m.CurrentUser(ctx)
	}
	user := resp.User
	if err := m.sess.Create(ctx, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout vacía la sesión. Nunca falla.
func (m *Manager) Logout() {
	m.sess.Clear()
}

// IsAuthenticated indica si hay token (sin probarlo).
func (m *Manager) IsAuthenticated() bool {
	return m.sess.IsAuthenticated()
}

// CurrentUser devuelve el perfil en memoria o, si solo hay token, lo consulta en /me.
// Cualquier fallo de /me vacía la sesión y devuelve Unauthenticated (con la causa encadenada).
// Llamadas concurrentes comparten una sola petición, que no depende del contexto de
// ningún llamador: cancelar ctx solo abandona la espera.
func (m *Manager) CurrentUser(ctx context.Context) (*dto.UserProfile, error) {
	if u, ok := m.sess.User(); ok {
		return &u, nil
	}
	if !m.sess.IsAuthenticated() {
		return nil, &domain.APIError{Kind: domain.KindUnauthenticated, Message: "no hay sesión iniciada"}
	}

	shared := context.WithoutCancel(ctx)
	ch := m.me.DoChan("me", func() (any, error) {
		u, err := m.auth.Me(shared)
		if err != nil {
			m.sess.Clear()
			var apiErr *domain.APIError
			if errors.As(err, &apiErr) && apiErr.Kind == domain.KindUnauthenticated {
				return nil, err
			}
			return nil, &domain.APIError{Kind: domain.KindUnauthenticated, Method: "GET", Path: "/me", Message: "no se pudo verificar la sesión", Err: err}
		}
		m.sess.SetUser(shared, *u)
		return u, nil
	})

	select {
	case <-ctx.Done():
		return nil, &domain.APIError{Kind: domain.KindNetwork, Method: "GET", Path: "/me", Message: "petición cancelada", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		u := *(res.Val.(*dto.UserProfile))
		return &u, nil
	}
}
