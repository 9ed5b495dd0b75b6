// idcr cliente de línea de comandos para la API de documentos.
//
// Uso: idcr [flags globales] <comando> [flags] [args]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jhoicas/idcr-client/pkg/config"
	"github.com/jhoicas/idcr-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run punto de entrada testeable: devuelve el código de salida.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("idcr", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	global.String("server", "", "URL base del backend (IDCR_API_BASE_URL)")
	global.String("timeout", "", "límite por petición, ej. 30s (IDCR_API_TIMEOUT)")
	global.String("session-backend", "", "file | memory | redis (IDCR_SESSION_BACKEND)")
	global.String("session-file", "", "ruta del archivo de sesión (IDCR_SESSION_FILE)")
	global.String("log-level", "", "trace, debug, info, warn, error (LOG_LEVEL)")
	global.String("log-file", "", "archivo de log rotado (LOG_FILE)")
	global.String("env", "", "development | production (APP_ENV)")
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitValidation
	}
	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stderr, global)
		return exitValidation
	}

	cfg, err := config.Load(global)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitValidation
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, File: cfg.Log.File, Out: stderr})
	defer log.Close()

	name, cmdArgs := rest[0], rest[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "comando desconocido %q\n\n", name)
		printUsage(stderr, global)
		return exitValidation
	}

	a, err := newApp(ctx, cfg, log, stdin, stdout, stderr)
	if err != nil {
		return report(stderr, err)
	}
	defer a.close()

	// El aviso de sesión vencida no aplica a login: ahí un 401 es "credenciales inválidas".
	if name != "login" && name != "register" {
		unsubscribe := a.api.OnUnauthenticated(func(error) {
			fmt.Fprintln(stderr, "La sesión no es válida o expiró. Ejecute: idcr login")
		})
		defer unsubscribe()
	}

	if err := cmd.run(ctx, a, cmdArgs); err != nil {
		return report(stderr, err)
	}
	return exitOK
}

// report imprime el error de forma legible y devuelve el código de salida.
func report(w io.Writer, err error) int {
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintln(w, "error:", describe(err))
	return exitCode(err)
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "Uso: idcr [flags globales] <comando> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Comandos:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-14s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags globales:")
	fmt.Fprint(w, global.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Códigos de salida: "+strings.Join([]string{
		"0 ok", "1 error", "2 validación/uso", "3 sesión", "4 cliente", "5 servidor", "6 red", "7 timeout",
	}, ", "))
}
