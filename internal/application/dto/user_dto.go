package dto

import "encoding/json"

// UserProfile perfil del usuario autenticado (solo lectura en el cliente).
type UserProfile struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"` // admin | manager | employee
	Department string `json:"department"`
}

// UnmarshalJSON acepta también user_id (forma del backend FastAPI).
func (u *UserProfile) UnmarshalJSON(b []byte) error {
	type alias UserProfile
	var raw struct {
		alias
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = UserProfile(raw.alias)
	if u.ID == "" {
		u.ID = raw.UserID
	}
	return nil
}

// LoginRequest credenciales de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida de login. Algunos backends devuelven token, otros access_token.
type LoginResponse struct {
	Token       string      `json:"token,omitempty"`
	AccessToken string      `json:"access_token,omitempty"`
	TokenType   string      `json:"token_type,omitempty"`
	User        UserProfile `json:"user"`
}

// BearerToken devuelve el token presente (token tiene prioridad).
func (r LoginResponse) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// RegisterRequest entrada para registro.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// RegisterResponse salida de registro.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}
