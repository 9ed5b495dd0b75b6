package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente y del sandbox (lectura vía Viper desde env, archivo y flags).
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Sandbox SandboxConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig destino del cliente HTTP.
type APIConfig struct {
	BaseURL string        // ej. http://localhost:8000
	Prefix  string        // ej. /api
	Timeout time.Duration // límite por petición
}

// Endpoint devuelve BaseURL + Prefix sin barras duplicadas.
func (c APIConfig) Endpoint() string {
	base := strings.TrimRight(c.BaseURL, "/")
	prefix := strings.Trim(c.Prefix, "/")
	if prefix == "" {
		return base
	}
	return base + "/" + prefix
}

// SessionConfig dónde se persisten los slots authToken y user.
type SessionConfig struct {
	Backend   string // file | memory | redis
	File      string // ruta del archivo JSON (backend file)
	Namespace string // prefijo de claves (backend redis)
}

// RedisConfig conexión para el backend de sesión redis.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// LogConfig nivel y archivo opcional (rotado) del logger.
type LogConfig struct {
	Level string
	File  string
}

// DBConfig configuración de PostgreSQL (store del sandbox).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT (emisión en el sandbox).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP del sandbox.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SandboxConfig backend local de desarrollo.
type SandboxConfig struct {
	Store string // memory | postgres
	Seed  bool   // crea los usuarios de demostración al arrancar
}

// Claves de flags globales que se enlazan a variables de entorno.
var flagBindings = map[string]string{
	"server":          "IDCR_API_BASE_URL",
	"timeout":         "IDCR_API_TIMEOUT",
	"session-backend": "IDCR_SESSION_BACKEND",
	"session-file":    "IDCR_SESSION_FILE",
	"log-level":       "LOG_LEVEL",
	"log-file":        "LOG_FILE",
	"env":             "APP_ENV",
}

// Load lee la configuración. Prioridad: flags > variables de entorno > archivo > valores por defecto.
// flags puede ser nil (sandbox, tests).
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Archivo opcional: ./.env, ./config.env, ~/.idcr/config.env (el primero que exista)
	for _, candidate := range configCandidates() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		v.SetConfigFile(candidate)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: leyendo %s: %w", candidate, err)
		}
		break
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	timeout, err := getDuration(v, "IDCR_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "idcr"),
		},
		API: APIConfig{
			BaseURL: getString(v, "IDCR_API_BASE_URL", "http://localhost:8000"),
			Prefix:  getString(v, "IDCR_API_PREFIX", "/api"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			Backend:   getString(v, "IDCR_SESSION_BACKEND", "file"),
			File:      getString(v, "IDCR_SESSION_FILE", defaultSessionFile()),
			Namespace: getString(v, "IDCR_SESSION_NAMESPACE", "default"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Username: getString(v, "REDIS_USERNAME", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "warn"),
			File:  getString(v, "LOG_FILE", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "idcr"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "idcr-sandbox"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8000),
		},
		Sandbox: SandboxConfig{
			Store: getString(v, "SANDBOX_STORE", "memory"),
			Seed:  getBool(v, "SANDBOX_SEED", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("config: IDCR_API_BASE_URL inválida %q: %w", c.API.BaseURL, err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: IDCR_API_TIMEOUT debe ser positivo")
	}
	switch c.Session.Backend {
	case "file", "memory", "redis":
	default:
		return fmt.Errorf("config: IDCR_SESSION_BACKEND desconocido %q (file|memory|redis)", c.Session.Backend)
	}
	switch c.Sandbox.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: SANDBOX_STORE desconocido %q (memory|postgres)", c.Sandbox.Store)
	}
	return nil
}

func configCandidates() []string {
	out := []string{".env", "config.env"}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".idcr", "config.env"))
	}
	return out
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".idcr", "session.json")
	}
	return filepath.Join(home, ".idcr", "session.json")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			return s
		}
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getDuration acepta "30s", "1m" o segundos enteros ("30").
func getDuration(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s inválido %q: %w", key, raw, err)
	}
	return d, nil
}
