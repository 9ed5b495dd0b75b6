package auth

import (
	"context"
	"errors"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// SeedUser usuario de demostración.
type SeedUser struct {
	dto.RegisterRequest
	Role string
}

// DefaultSeedUsers cuentas de demostración del sandbox.
var DefaultSeedUsers = []SeedUser{
	{RegisterRequest: dto.RegisterRequest{Email: "admin@company.com", Password: "admin123", FullName: "Admin User", Department: "administration"}, Role: entity.RoleAdmin},
	{RegisterRequest: dto.RegisterRequest{Email: "manager@company.com", Password: "manager123", FullName: "Finance Manager", Department: "finance"}, Role: entity.RoleManager},
	{RegisterRequest: dto.RegisterRequest{Email: "employee@company.com", Password: "employee123", FullName: "Finance Employee", Department: "finance"}, Role: entity.RoleEmployee},
}

// Seed crea los usuarios que falten. Idempotente: los existentes se saltan.
// Devuelve cuántos se crearon.
func (uc *AuthUseCase) Seed(ctx context.Context, users []SeedUser) (int, error) {
	created := 0
	for _, su := range users {
		_, err := uc.CreateUser(ctx, su.RegisterRequest, su.Role)
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
