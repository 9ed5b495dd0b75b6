package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/domain"
)

var errUndecodable = errors.New("respuesta no decodificable")

// transportError clasifica un fallo sin respuesta HTTP: timeout, cancelación o red.
func transportError(ctx context.Context, r ports.Request, err error) *domain.APIError {
	e := &domain.APIError{Method: r.Method, Path: r.Path, Err: err}
	switch {
	case isTimeout(ctx, err):
		e.Kind = domain.KindTimeout
		e.Message = "el servidor no respondió a tiempo"
		e.Err = context.DeadlineExceeded
	case errors.Is(ctx.Err(), context.Canceled):
		e.Kind = domain.KindNetwork
		e.Message = "petición cancelada"
		e.Err = ctx.Err()
	default:
		e.Kind = domain.KindNetwork
		e.Message = "no se pudo contactar al servidor"
	}
	return e
}

// readError clasifica un fallo al leer o decodificar un cuerpo 2xx.
func readError(ctx context.Context, r ports.Request, status int, err error) *domain.APIError {
	if errors.Is(err, errUndecodable) {
		return &domain.APIError{Kind: domain.KindServer, StatusCode: status, Method: r.Method, Path: r.Path, Message: err.Error(), Err: err}
	}
	e := transportError(ctx, r, err)
	e.StatusCode = status
	return e
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusError clasifica una respuesta no 2xx.
func statusError(r ports.Request, status int, body []byte) *domain.APIError {
	code, msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	e := &domain.APIError{StatusCode: status, Code: code, Message: msg, Method: r.Method, Path: r.Path}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = domain.KindUnauthenticated
	case status >= 400 && status < 500:
		e.Kind = domain.KindClient
	case status >= 500:
		e.Kind = domain.KindServer
	default:
		// 1xx o 3xx no seguidos: respuesta que el cliente no sabe interpretar.
		e.Kind = domain.KindClient
		e.Message = fmt.Sprintf("estado inesperado %d: %s", status, msg)
	}
	return e
}

// extractMessage busca el mensaje legible en las formas de error conocidas:
// {"message"}, {"detail": "..."}, {"detail": [{"msg"}]} y {"error"}.
// Si el cuerpo no es JSON devuelve el texto recortado.
func extractMessage(body []byte) (code, msg string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", ""
	}
	var payload struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", truncate(trimmed, 300)
	}
	switch {
	case payload.Message != "":
		msg = payload.Message
	case len(payload.Detail) > 0:
		msg = rawText(payload.Detail)
	case len(payload.Error) > 0:
		msg = rawText(payload.Error)
	}
	return payload.Code, msg
}

// rawText interpreta un valor JSON como string, lista de {msg} o {message}.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				parts = append(parts, it.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
