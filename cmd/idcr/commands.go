package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands map[string]command

var commandOrder = []string{
	"login", "logout", "whoami", "register", "dashboard", "docs", "upload",
	"stats", "analytics", "notifications", "health", "report",
}

func init() {
	commands = map[string]command{
		"login":         {"inicia sesión (--email, --password)", cmdLogin},
		"logout":        {"cierra la sesión local", cmdLogout},
		"whoami":        {"muestra el usuario actual (--offline no consulta al servidor)", cmdWhoami},
		"register":      {"registra un usuario nuevo", cmdRegister},
		"dashboard":     {"indicadores y documentos recientes", cmdDashboard},
		"docs":          {"list | show | approve | reject | review | delete | download", cmdDocs},
		"upload":        {"carga masiva: upload --department D archivo...", cmdUpload},
		"stats":         {"indicadores globales", cmdStats},
		"analytics":     {"indicadores filtrados (--department, --from, --to)", cmdAnalytics},
		"notifications": {"list | read <id> | unread", cmdNotifications},
		"health":        {"estado del backend", cmdHealth},
		"report":        {"genera el reporte PDF de analítica", cmdReport},
	}
}

func newFlagSet(a *app, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.err)
	return fs
}

// parse aplica fs y exige exactamente n argumentos posicionales (n < 0 = cualquiera).
func parse(fs *pflag.FlagSet, args []string, n int, usage string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, err
		}
		return nil, usagef("%v", err)
	}
	rest := fs.Args()
	if n >= 0 && len(rest) != n {
		return nil, usagef("uso: idcr %s", usage)
	}
	return rest, nil
}

// ── Sesión ────────────────────────────────────────────────────────────────────

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "contraseña (o IDCR_PASSWORD)")
	if _, err := parse(fs, args, 0, "login [--email E] [--password P]"); err != nil {
		return err
	}
	if *email == "" {
		*email = a.prompt("Email: ")
	}
	if *password == "" {
		*password = os.Getenv("IDCR_PASSWORD")
	}
	if *password == "" {
		*password = a.prompt("Contraseña: ")
	}
	if *email == "" || *password == "" {
		return domain.NewValidationError("credenciales", "email y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	u, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sesión iniciada como %s (%s, %s)\n", u.FullName, u.Role, deptTitle(u.Department))
	return nil
}

func cmdLogout(_ context.Context, a *app, args []string) error {
	if _, err := parse(newFlagSet(a, "logout"), args, 0, "logout"); err != nil {
		return err
	}
	a.sessions.Logout()
	fmt.Fprintln(a.out, "Sesión cerrada")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "whoami")
	offline := fs.Bool("offline", false, "usa el perfil guardado sin validarlo")
	if _, err := parse(fs, args, 0, "whoami [--offline]"); err != nil {
		return err
	}
	if *offline {
		u, ok, err := a.sess.StoredUser(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewAPIError(domain.KindUnauthenticated, 0, "no hay sesión guardada", nil)
		}
		printProfile(a.out, u)
		fmt.Fprintln(a.out, "(perfil guardado, sin validar)")
		return nil
	}
	u, err := a.sessions.CurrentUser(ctx)
	if err != nil {
		return err
	}
	printProfile(a.out, *u)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "register")
	var in dto.RegisterRequest
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Password, "password", "", "contraseña (mínimo 6)")
	fs.StringVar(&in.FullName, "full-name", "", "nombre completo")
	fs.StringVar(&in.Department, "department", "", "departamento")
	if _, err := parse(fs, args, 0, "register --email E --password P --full-name N --department D"); err != nil {
		return err
	}
	out, err := a.auth.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %s)\n", orDash(out.Message), out.UserID)
	return nil
}

// ── Tablero e indicadores ────────────────────────────────────────────────────

func cmdDashboard(ctx context.Context, a *app, args []string) error {
	if _, err := parse(newFlagSet(a, "dashboard"), args, 0, "dashboard"); err != nil {
		return err
	}
	d := a.dashboard.Load(ctx)
	if d.Stats != nil {
		printStats(a.out, d.Stats)
	} else {
		fmt.Fprintf(a.err, "indicadores no disponibles: %s\n", describe(d.StatsErr))
	}
	fmt.Fprintln(a.out, "\nDocumentos recientes:")
	if d.RecentErr == nil {
		printDocuments(a.out, d.Recent)
	} else {
		fmt.Fprintf(a.err, "documentos recientes no disponibles: %s\n", describe(d.RecentErr))
	}
	return d.Err()
}

func cmdStats(ctx context.Context, a *app, args []string) error {
	if _, err := parse(newFlagSet(a, "stats"), args, 0, "stats"); err != nil {
		return err
	}
	s, err := a.stats.GetDashboardStats(ctx)
	if err != nil {
		return err
	}
	printStats(a.out, s)
	return nil
}

func analyticsFlags(fs *pflag.FlagSet) *dto.AnalyticsFilter {
	f := &dto.AnalyticsFilter{}
	fs.StringVar(&f.Department, "department", "", "departamento")
	fs.StringVar(&f.From, "from", "", "desde (YYYY-MM-DD)")
	fs.StringVar(&f.To, "to", "", "hasta, inclusive (YYYY-MM-DD)")
	return f
}

func cmdAnalytics(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "analytics")
	f := analyticsFlags(fs)
	if _, err := parse(fs, args, 0, "analytics [--department D] [--from F] [--to T]"); err != nil {
		return err
	}
	s, err := a.stats.GetAnalytics(ctx, *f)
	if err != nil {
		return err
	}
	printStats(a.out, s)
	return nil
}

func cmdReport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "report")
	f := analyticsFlags(fs)
	output := fs.StringP("output", "o", "", "archivo PDF de salida (defecto reporte-AAAAMMDD.pdf)")
	if _, err := parse(fs, args, 0, "report [--department D] [--from F] [--to T] [-o archivo.pdf]"); err != nil {
		return err
	}
	if *output == "" {
		*output = "reporte-" + time.Now().Format("20060102") + ".pdf"
	}
	pdf, err := a.report.Generate(ctx, *f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, pdf, 0o644); err != nil {
		return fmt.Errorf("guardar reporte: %w", err)
	}
	fmt.Fprintf(a.out, "Reporte guardado en %s (%s)\n", *output, humanize.IBytes(uint64(len(pdf))))
	return nil
}

func cmdHealth(ctx context.Context, a *app, args []string) error {
	if _, err := parse(newFlagSet(a, "health"), args, 0, "health"); err != nil {
		return err
	}
	h, err := a.system.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s (%s)\n", orDash(h.Service), h.Status, a.cfg.API.Endpoint())
	if !a.sessions.IsAuthenticated() {
		return nil
	}
	s, err := a.system.Stats(ctx)
	if err != nil {
		return err
	}
	tw := newTable(a.out)
	fmt.Fprintf(tw, "Documentos:\t%s\n", humanize.Comma(int64(s.Documents)))
	fmt.Fprintf(tw, "Usuarios:\t%s\n", humanize.Comma(int64(s.Users)))
	fmt.Fprintf(tw, "Activo desde:\t%s\n", humanize.Time(time.Now().Add(-time.Duration(s.UptimeSeconds)*time.Second)))
	return tw.Flush()
}

// ── Carga ─────────────────────────────────────────────────────────────────────

func cmdUpload(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "upload")
	var opts dto.UploadOptions
	fs.StringVarP(&opts.Department, "department", "d", "", "departamento destino (obligatorio)")
	fs.StringVarP(&opts.Priority, "priority", "p", "", "low, medium, high, urgent")
	fs.StringVar(&opts.BatchName, "batch-name", "", "nombre del lote")
	paths, err := parse(fs, args, -1, "upload --department D archivo...")
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return usagef("uso: idcr upload --department D archivo...")
	}

	files := make([]dto.UploadFile, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("abrir %s: %w", p, err)
		}
		defer f.Close()
		st, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		files = append(files, dto.UploadFile{
			Name:        filepath.Base(p),
			Size:        st.Size(),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(p))),
			Content:     f,
		})
	}

	res, err := a.upload.BulkUpload(ctx, files, opts)
	if res != nil {
		printUploadResult(a.out, res)
	}
	return err
}
