package usecase

import (
	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// Actor identidad del llamador, tomada de los claims del JWT.
type Actor struct {
	UserID     string
	Role       string
	Department string
}

// CanReview admin y manager aprueban, rechazan y eliminan.
func (a Actor) CanReview() bool {
	return a.Role == entity.RoleAdmin || a.Role == entity.RoleManager
}

// scope restringe filter según el rol:
//   - employee: solo sus documentos (el filtro de departamento se ignora)
//   - manager: el departamento pedido o, si no pide, el propio
//   - admin: el departamento pedido o todos
func (a Actor) scope(filter entity.DocumentFilter) entity.DocumentFilter {
	switch a.Role {
	case entity.RoleAdmin:
	case entity.RoleManager:
		if filter.Department == "" {
			filter.Department = a.Department
		}
	default:
		filter.Department = ""
		filter.UploadedBy = a.UserID
	}
	return filter
}

// canSee aplica la misma regla a un documento concreto: admin y manager
// pueden filtrar por cualquier departamento, así que ven cualquier detalle.
func (a Actor) canSee(d *entity.Document) bool {
	return a.CanReview() || d.UploadedBy == a.UserID
}

// feed parámetros de visibilidad de avisos: employee solo los propios,
// manager además el feed de su departamento, admin el de todos.
func (a Actor) feed() (department string, includeDepartment bool) {
	switch a.Role {
	case entity.RoleAdmin:
		return "", true
	case entity.RoleManager:
		return a.Department, true
	}
	return a.Department, false
}
