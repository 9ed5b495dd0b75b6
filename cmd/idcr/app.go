package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/idcr-client/internal/application/analytics"
	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/application/service"
	"github.com/jhoicas/idcr-client/internal/application/session"
	"github.com/jhoicas/idcr-client/internal/infrastructure/httpapi"
	infrapdf "github.com/jhoicas/idcr-client/internal/infrastructure/pdf"
	"github.com/jhoicas/idcr-client/internal/infrastructure/sessionstore"
	"github.com/jhoicas/idcr-client/pkg/config"
	"github.com/jhoicas/idcr-client/pkg/logger"
)

// sessionTTL caducidad de las claves de sesión en Redis.
const sessionTTL = 24 * time.Hour

// app dependencias compartidas por los comandos.
type app struct {
	cfg *config.Config
	log *logger.Logger

	storage  ports.SessionStorage
	sess     *session.Session
	sessions *session.Manager
	api      *httpapi.Client

	auth      *service.AuthService
	docs      *service.DocumentService
	upload    *service.UploadService
	stats     *service.StatsService
	notifs    *service.NotificationService
	system    *service.SystemService
	dashboard *analytics.DashboardUseCase
	report    *analytics.ReportUseCase

	in  *bufio.Reader
	out io.Writer
	err io.Writer

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	a := &app{cfg: cfg, log: log, in: bufio.NewReader(stdin), out: stdout, err: stderr}

	storage, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	a.storage = storage

	a.sess = session.New(storage, log)
	if err := a.sess.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo restaurar la sesión")
	}

	a.api, err = httpapi.New(httpapi.Config{BaseURL: cfg.API.Endpoint(), Timeout: cfg.API.Timeout}, a.sess, log)
	if err != nil {
		return nil, err
	}

	a.auth = service.NewAuthService(a.api)
	a.sessions = session.NewManager(a.sess, a.auth)
	a.docs = service.NewDocumentService(a.api)
	a.upload = service.NewUploadService(a.api)
	a.stats = service.NewStatsService(a.api)
	a.notifs = service.NewNotificationService(a.api)
	a.system = service.NewSystemService(a.api)
	a.dashboard = analytics.NewDashboardUseCase(a.stats, a.docs)
	a.report = analytics.NewReportUseCase(a.sessions, a.stats, a.docs, infrapdf.NewMarotoPDFGenerator())
	return a, nil
}

func (a *app) openStorage(ctx context.Context) (ports.SessionStorage, error) {
	switch a.cfg.Session.Backend {
	case "memory":
		return sessionstore.NewMemoryStorage(), nil
	case "redis":
		rs, err := sessionstore.NewRedisStorage(ctx, a.cfg.Redis, a.cfg.Session.Namespace, sessionTTL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	}
	return sessionstore.NewFileStorage(a.cfg.Session.File), nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Debug().Err(err).Msg("cerrar recurso")
		}
	}
}

// prompt lee una línea de stdin. Sin entrada devuelve "".
func (a *app) prompt(label string) string {
	fmt.Fprint(a.err, label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm pide confirmación y/N.
func (a *app) confirm(question string) bool {
	switch strings.ToLower(a.prompt(question + " [y/N]: ")) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}
