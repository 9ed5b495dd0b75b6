// Package session estado de autenticación del cliente: token + perfil, persistidos
// en los slots authToken y user, que siempre se borran juntos.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/pkg/jwt"
	"github.com/jhoicas/idcr-client/pkg/logger"
)

var _ ports.Credentials = (*Session)(nil)

const storageTimeout = 5 * time.Second

// Session contenedor del token y del perfil. Un solo escritor (login/logout/401)
// y muchos lectores (peticiones concurrentes del dashboard).
type Session struct {
	storage ports.SessionStorage
	log     *logger.Logger
	now     func() time.Time

	mu    sync.RWMutex
	token string
	user  *dto.UserProfile
}

// New construye una sesión vacía. Llamar Restore para recuperar la persistida.
func New(storage ports.SessionStorage, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{storage: storage, log: log, now: time.Now}
}

// Token devuelve el bearer actual ("" si no hay sesión).
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User perfil en memoria, si ya fue probado (login o /me).
func (s *Session) User() (dto.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return dto.UserProfile{}, false
	}
	return *s.user, true
}

// IsAuthenticated indica si hay token. No prueba su validez.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Create instala una sesión recién autenticada y la persiste.
// Con user nil solo se guarda el token; el perfil queda pendiente de /me.
// Si la persistencia falla, la sesión queda vacía.
func (s *Session) Create(ctx context.Context, token string, user *dto.UserProfile) error {
	var raw []byte
	if user != nil {
		var err error
		if raw, err = json.Marshal(user); err != nil {
			return fmt.Errorf("session: serializar perfil: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(ctx, ports.SlotAuthToken, token); err != nil {
		s.clearLocked()
		return fmt.Errorf("session: persistir token: %w", err)
	}
	s.user = nil
	if user == nil {
		if err := s.storage.Delete(ctx, ports.SlotUser); err != nil {
			s.clearLocked()
			return fmt.Errorf("session: borrar perfil anterior: %w", err)
		}
		s.token = token
		return nil
	}
	if err := s.storage.Set(ctx, ports.SlotUser, string(raw)); err != nil {
		s.clearLocked()
		return fmt.Errorf("session: persistir perfil: %w", err)
	}
	s.token = token
	u := *user
	s.user = &u
	return nil
}

// SetUser guarda el perfil obtenido de /me. No hace nada si la sesión se vació entretanto.
func (s *Session) SetUser(ctx context.Context, user dto.UserProfile) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	u := user
	s.user = &u
	if err := s.storage.Set(ctx, ports.SlotUser, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("session: no se pudo persistir el perfil")
	}
}

// Restore carga el token persistido. El perfil guardado no se da por válido hasta
// consultar /me. Un JWT vencido se descarta localmente sin llamar a la red.
func (s *Session) Restore(ctx context.Context) error {
	tok, ok, err := s.storage.Get(ctx, ports.SlotAuthToken)
	if err != nil {
		return fmt.Errorf("session: restaurar: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if !ok || tok == "" {
		s.token = ""
		return nil
	}
	if jwt.Expired(tok, s.now()) {
		s.log.Info().Msg("session: token persistido vencido, se descarta")
		s.clearLocked()
		return nil
	}
	s.token = tok
	return nil
}

// StoredUser lee el perfil persistido sin validarlo (whoami offline).
func (s *Session) StoredUser(ctx context.Context) (dto.UserProfile, bool, error) {
	raw, ok, err := s.storage.Get(ctx, ports.SlotUser)
	if err != nil || !ok || raw == "" {
		return dto.UserProfile{}, false, err
	}
	var u dto.UserProfile
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return dto.UserProfile{}, false, fmt.Errorf("session: perfil persistido corrupto: %w", err)
	}
	return u, true, nil
}

// Clear vacía la sesión en memoria y borra ambos slots. Nunca falla: los errores
// del almacenamiento solo se registran.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.token = ""
	s.user = nil
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := s.storage.Delete(ctx, ports.SlotAuthToken, ports.SlotUser); err != nil {
		s.log.Warn().Err(err).Msg("session: no se pudieron borrar los slots persistidos")
	}
}
