package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	Connection Connection
	Runtime    Runtime
	Audit      Audit
	Logging    Logging
	Flags      map[string]string
	Args       []string
}

// Connection selects the profile the dashboard connects with.
type Connection struct {
	ConfigPath string
	Profile    string
	Namespace  string
}

// Runtime tunes the worker and the UI.
type Runtime struct {
	RefreshInterval time.Duration
	AutoRefresh     bool
	PageSize        int
	HistoryPageSize int
	RequestTimeout  time.Duration
	ConnectTimeout  time.Duration
	MinCallInterval time.Duration
	Width           int
	Height          int
}

type Audit struct {
	Path     string
	Disabled bool
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig          = "TUIPORAL_CONFIG"
	envProfile         = "TUIPORAL_PROFILE"
	envNamespace       = "TUIPORAL_NAMESPACE"
	envLogFile         = "TUIPORAL_LOG_FILE"
	envTrace           = "TUIPORAL_TRACE"
	envRefreshInterval = "TUIPORAL_REFRESH_INTERVAL"
	envAutoRefresh     = "TUIPORAL_AUTO_REFRESH"
	envPageSize        = "TUIPORAL_PAGE_SIZE"
	envHistoryPageSize = "TUIPORAL_HISTORY_PAGE_SIZE"
	envRequestTimeout  = "TUIPORAL_REQUEST_TIMEOUT"
	envConnectTimeout  = "TUIPORAL_CONNECT_TIMEOUT"
	envMinCallInterval = "TUIPORAL_MIN_CALL_INTERVAL"
	envAuditDB         = "TUIPORAL_AUDIT_DB"
	envNoAudit         = "TUIPORAL_NO_AUDIT"
	envWidth           = "TUIPORAL_WIDTH"
	envHeight          = "TUIPORAL_HEIGHT"
)

const (
	DefaultRefreshInterval = 5 * time.Second
	DefaultPageSize        = 50
	DefaultHistoryPageSize = 100
	DefaultRequestTimeout  = 30 * time.Second
	DefaultConnectTimeout  = 10 * time.Second
)

// Values holds flags bound to a flag set until they are resolved into a
// Config.
type Values struct {
	fs *pflag.FlagSet

	configPath      *string
	profile         *string
	namespace       *string
	logFile         *string
	trace           *bool
	refreshInterval *time.Duration
	autoRefresh     *bool
	pageSize        *int
	historyPageSize *int
	requestTimeout  *time.Duration
	connectTimeout  *time.Duration
	minCallInterval *time.Duration
	auditDB         *string
	noAudit         *bool
	width           *int
	height          *int
}

// Bind registers the runtime flags on fs. Each flag defaults to its
// TUIPORAL_* environment variable when set.
func Bind(fs *pflag.FlagSet, environ []string) *Values {
	env := parseEnv(environ)
	return &Values{
		fs:              fs,
		configPath:      fs.String("config", envOrDefault(env, envConfig, DefaultConfigPath()), "path to the profiles file"),
		profile:         fs.String("profile", envOrDefault(env, envProfile, ""), "profile to connect with (defaults to active_profile)"),
		namespace:       fs.StringP("namespace", "n", envOrDefault(env, envNamespace, ""), "namespace override for the selected profile"),
		logFile:         fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
		trace:           fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		refreshInterval: fs.Duration("refresh-interval", envOrDuration(env, envRefreshInterval, DefaultRefreshInterval), "workflow list auto-refresh interval"),
		autoRefresh:     fs.Bool("auto-refresh", envOrBool(env, envAutoRefresh, false), "start with auto-refresh enabled"),
		pageSize:        fs.Int("page-size", envOrInt(env, envPageSize, DefaultPageSize), "workflows per page"),
		historyPageSize: fs.Int("history-page-size", envOrInt(env, envHistoryPageSize, DefaultHistoryPageSize), "history events per page"),
		requestTimeout:  fs.Duration("request-timeout", envOrDuration(env, envRequestTimeout, DefaultRequestTimeout), "timeout for a single remote call"),
		connectTimeout:  fs.Duration("connect-timeout", envOrDuration(env, envConnectTimeout, DefaultConnectTimeout), "timeout for connecting and the health check"),
		minCallInterval: fs.Duration("min-call-interval", envOrDuration(env, envMinCallInterval, 0), "minimum delay between remote calls"),
		auditDB:         fs.String("audit-db", envOrDefault(env, envAuditDB, ""), "path to the audit database (default under the XDG data dir)"),
		noAudit:         fs.Bool("no-audit", envOrBool(env, envNoAudit, false), "disable the audit log and query history"),
		width:           fs.Int("width", envOrInt(env, envWidth, 0), "viewport width in cells (0 uses terminal width)"),
		height:          fs.Int("height", envOrInt(env, envHeight, 0), "viewport height in rows (0 uses terminal height)"),
	}
}

// Resolve validates the parsed flags and builds the Config. args are the
// arguments that were parsed, kept for tracing.
func (v *Values) Resolve(args []string) (Config, error) {
	switch {
	case *v.pageSize <= 0:
		return Config{}, fmt.Errorf("page-size must be > 0 (got %d)", *v.pageSize)
	case *v.historyPageSize <= 0:
		return Config{}, fmt.Errorf("history-page-size must be > 0 (got %d)", *v.historyPageSize)
	case *v.refreshInterval <= 0:
		return Config{}, fmt.Errorf("refresh-interval must be > 0 (got %s)", *v.refreshInterval)
	case *v.requestTimeout <= 0:
		return Config{}, fmt.Errorf("request-timeout must be > 0 (got %s)", *v.requestTimeout)
	case *v.connectTimeout <= 0:
		return Config{}, fmt.Errorf("connect-timeout must be > 0 (got %s)", *v.connectTimeout)
	case *v.minCallInterval < 0:
		return Config{}, fmt.Errorf("min-call-interval must be >= 0 (got %s)", *v.minCallInterval)
	case *v.width < 0:
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *v.width)
	case *v.height < 0:
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *v.height)
	}

	flags := make(map[string]string)
	v.fs.VisitAll(func(f *pflag.Flag) {
		flags[f.Name] = f.Value.String()
	})

	return Config{
		Connection: Connection{
			ConfigPath: *v.configPath,
			Profile:    strings.TrimSpace(*v.profile),
			Namespace:  strings.TrimSpace(*v.namespace),
		},
		Runtime: Runtime{
			RefreshInterval: *v.refreshInterval,
			AutoRefresh:     *v.autoRefresh,
			PageSize:        *v.pageSize,
			HistoryPageSize: *v.historyPageSize,
			RequestTimeout:  *v.requestTimeout,
			ConnectTimeout:  *v.connectTimeout,
			MinCallInterval: *v.minCallInterval,
			Width:           *v.width,
			Height:          *v.height,
		},
		Audit: Audit{
			Path:     *v.auditDB,
			Disabled: *v.noAudit,
		},
		Logging: Logging{
			FilePath: *v.logFile,
			Trace:    *v.trace,
		},
		Flags: flags,
		Args:  append([]string(nil), args...),
	}, nil
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("tuiporal", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	values := Bind(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return values.Resolve(args)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok && v != "" {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}
