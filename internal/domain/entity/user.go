package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a un Department).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string // admin, manager, employee
	Department   string
	CreatedAt    time.Time
}

// CanReview admin y manager pueden aprobar, rechazar y eliminar documentos.
func (u *User) CanReview() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
