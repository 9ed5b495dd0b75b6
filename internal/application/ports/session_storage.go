package ports

import "context"

// Slots persistidos de la sesión. Siempre se borran juntos.
const (
	SlotAuthToken = "authToken"
	SlotUser      = "user"
)

// SessionStorage almacenamiento clave/valor de los slots de sesión
// (archivo local, memoria o redis).
type SessionStorage interface {
	// Get devuelve ok=false si el slot no existe.
	Get(ctx context.Context, slot string) (value string, ok bool, err error)
	Set(ctx context.Context, slot, value string) error
	// Delete borra los slots indicados; borrar un slot inexistente no es error.
	Delete(ctx context.Context, slots ...string) error
}
