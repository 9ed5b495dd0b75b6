package main

import (
	"errors"
	"fmt"

	"github.com/jhoicas/idcr-client/internal/domain"
)

// Códigos de salida por tipo de error.
const (
	exitOK              = 0
	exitGeneric         = 1
	exitValidation      = 2
	exitUnauthenticated = 3
	exitClient          = 4
	exitServer          = 5
	exitNetwork         = 6
	exitTimeout         = 7
)

// usageError uso incorrecto de un comando (argumentos faltantes o de más).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitValidation
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return exitValidation
	case domain.KindUnauthenticated:
		return exitUnauthenticated
	case domain.KindClient:
		return exitClient
	case domain.KindServer:
		return exitServer
	case domain.KindNetwork:
		return exitNetwork
	case domain.KindTimeout:
		return exitTimeout
	}
	return exitGeneric
}

// describe mensaje para el usuario: el del servidor si lo hay.
func describe(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case domain.KindUnauthenticated:
			if apiErr.Message != "" {
				return "no autenticado: " + apiErr.Message
			}
			return "no autenticado"
		case domain.KindClient, domain.KindServer:
			return fmt.Sprintf("%s (HTTP %d)", domain.MessageOf(err), apiErr.StatusCode)
		}
		return domain.MessageOf(err)
	}
	return err.Error()
}
