package ports

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// APIClient define el puerto de salida hacia la API REST del backend.
// El adaptador HTTP clasifica todos los fallos en *domain.APIError; los
// llamadores no deben reintentar ni reclasificar.
//
// out admite: nil (se descarta el cuerpo), *string o *[]byte (cuerpo crudo),
// io.Writer (streaming, sin límite de tamaño) o cualquier destino JSON.
type APIClient interface {
	Do(ctx context.Context, req Request, out any) error
}

// Request petición lógica relativa al endpoint base (ej. Path "/documents").
// A lo sumo uno de JSON o Form.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	JSON   any
	Form   *MultipartForm
	Header http.Header
}

// MultipartForm cuerpo multipart/form-data.
type MultipartForm struct {
	Fields []FormField
	Files  []FormFile
}

// FormField campo de texto.
type FormField struct {
	Name  string
	Value string
}

// FormFile parte de archivo. ContentType vacío se deduce de la extensión.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// Credentials lo que el transporte necesita de la sesión: leer el token y
// vaciarla ante un 401.
type Credentials interface {
	Token() string
	Clear()
}
