// Package httpapi adaptador HTTP del puerto APIClient: inyección del bearer,
// cuerpos JSON y multipart, lectura de respuestas y clasificación de errores.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa APIClient.
var _ ports.APIClient = (*Client)(nil)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 16 << 20 // cuerpos JSON/texto; las descargas a io.Writer no se limitan
	maxErrorBytes    = 64 * 1024
	userAgent        = "idcr-client/1.0"
)

// Config opciones del cliente.
type Config struct {
	BaseURL    string        // endpoint base incluyendo el prefijo, ej. http://localhost:8000/api
	Timeout    time.Duration // límite por petición (defecto 30 s)
	HTTPClient *http.Client  // opcional (tests)
}

// Client adaptador que implementa APIClient sobre net/http. Sin reintentos.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	creds      ports.Credentials
	log        *logger.Logger

	mu       sync.RWMutex
	handlers map[int]func(error)
	nextID   int
}

// New construye el cliente. creds puede ser nil (peticiones anónimas).
func New(cfg Config, creds ports.Credentials, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("httpapi: base URL inválida %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		// El límite lo impone el contexto por petición para distinguir timeout de cancelación.
		hc = &http.Client{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		timeout:    timeout,
		httpClient: hc,
		creds:      creds,
		log:        log,
		handlers:   map[int]func(error){},
	}, nil
}

// OnUnauthenticated registra fn para ser llamado (tras vaciar la sesión) cada vez
// que una respuesta 401 llega. Devuelve la función para anular el registro.
func (c *Client) OnUnauthenticated(fn func(error)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

func (c *Client) notifyUnauthenticated(err error) {
	c.mu.RLock()
	fns := make([]func(error), 0, len(c.handlers))
	for _, fn := range c.handlers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()
	for _, fn := range fns {
		fn(err)
	}
}

// ── Atajos ────────────────────────────────────────────────────────────────────

// Get GET path?query → out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, ports.Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post POST con cuerpo JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, ports.Request{Method: http.MethodPost, Path: path, JSON: body}, out)
}

// Put PUT con cuerpo JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, ports.Request{Method: http.MethodPut, Path: path, JSON: body}, out)
}

// Patch PATCH con cuerpo JSON (body puede ser nil).
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, ports.Request{Method: http.MethodPatch, Path: path, JSON: body}, out)
}

// Delete DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, ports.Request{Method: http.MethodDelete, Path: path}, out)
}

// Upload POST multipart/form-data.
func (c *Client) Upload(ctx context.Context, path string, form *ports.MultipartForm, out any) error {
	return c.Do(ctx, ports.Request{Method: http.MethodPost, Path: path, Form: form}, out)
}

// Download GET path copiando el cuerpo crudo a w.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) error {
	return c.Do(ctx, ports.Request{Method: http.MethodGet, Path: path}, w)
}

// ── Núcleo ────────────────────────────────────────────────────────────────────

// Do ejecuta la petición y decodifica la respuesta en out. Todo error devuelto
// es *domain.APIError (ver classify.go).
func (c *Client) Do(ctx context.Context, r ports.Request, out any) error {
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return &domain.APIError{Kind: domain.KindNetwork, Method: r.Method, Path: r.Path, Message: "construir petición", Err: err}
	}

	reqID := req.Header.Get("X-Request-ID")
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := transportError(ctx, r, err)
		c.log.Debug().Str("request_id", reqID).Str("method", r.Method).Str("path", r.Path).
			Dur("latency", time.Since(start)).Str("kind", string(apiErr.Kind)).Msg("http: petición fallida")
		return apiErr
	}
	defer resp.Body.Close()

	c.log.Debug().Str("request_id", reqID).Str("method", r.Method).Str("path", r.Path).
		Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("http: respuesta")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := decodeSuccess(resp, out); err != nil {
			return readError(ctx, r, resp.StatusCode, err)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	apiErr := statusError(r, resp.StatusCode, raw)
	if apiErr.Kind == domain.KindUnauthenticated {
		// Primero vaciar la sesión: ningún llamador debe observar el token tras un 401.
		if c.creds != nil {
			c.creds.Clear()
		}
		c.notifyUnauthenticated(apiErr)
	}
	return apiErr
}

func (c *Client) newRequest(ctx context.Context, r ports.Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
		startForm   func()
	)
	switch {
	case r.Form != nil:
		body, contentType, startForm = multipartBody(r.Form)
	case r.JSON != nil:
		buf, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("serializar cuerpo: %w", err)
		}
		body, contentType = bytes.NewReader(buf), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, err
	}
	if startForm != nil {
		startForm()
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if tok := c.creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// decodeSuccess vuelca el cuerpo 2xx en out según su tipo.
func decodeSuccess(resp *http.Response, out any) error {
	switch dst := out.(type) {
	case nil:
		_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return err
	case io.Writer:
		_, err := io.Copy(dst, resp.Body)
		return err
	case *[]byte:
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		*dst = b
		return err
	case *string:
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		*dst = string(b)
		return err
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: se esperaba JSON y llegó %q", errUndecodable, resp.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
