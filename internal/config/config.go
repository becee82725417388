package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	EliminationScopeGlobal = "global"
	EliminationScopeLeague = "league"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL                   string
	DBDisablePreparedBinary bool

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	LogLevel           logging.Level

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	AuthBaseURL             string
	AuthIntrospectPath      string
	AuthAdminKey            string
	AuthTimeout             time.Duration
	AuthCircuitEnabled      bool
	AuthCircuitFailureCount int
	AuthCircuitOpenTimeout  time.Duration
	AuthCircuitHalfOpenMax  int

	InternalAdminToken string

	WebhookEnabled             bool
	WebhookEndpoint            string
	WebhookToken               string
	WebhookTimeout             time.Duration
	WebhookRetries             int
	WebhookCircuitEnabled      bool
	WebhookCircuitFailureCount int
	WebhookCircuitOpenTimeout  time.Duration
	WebhookCircuitHalfOpenMax  int

	SeasonNumber       int
	SeasonName         string
	SeasonPremiereDate time.Time
	SeasonTimezone     *time.Location
	RosterLockWeekday  time.Weekday
	RosterLockHour     int

	RosterSize                int
	NetChangeCap              int
	AddDropRestrictionEnabled bool
	EliminationScope          string

	RecomputeWorkers int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	authTimeout, err := time.ParseDuration(getEnv("AUTH_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_TIMEOUT: %w", err)
	}
	authCircuitEnabled, err := strconv.ParseBool(getEnv("AUTH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_ENABLED: %w", err)
	}
	authCircuitFailureCount, err := getEnvAsInt("AUTH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if authCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	authCircuitOpenTimeout, err := time.ParseDuration(getEnv("AUTH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if authCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	authCircuitHalfOpenMax, err := getEnvAsInt("AUTH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if authCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	webhookEnabled, err := strconv.ParseBool(getEnv("WEBHOOK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_ENABLED: %w", err)
	}
	webhookEndpoint := strings.TrimSpace(getEnv("WEBHOOK_ENDPOINT", ""))
	if webhookEnabled && webhookEndpoint == "" {
		return Config{}, fmt.Errorf("WEBHOOK_ENDPOINT is required when WEBHOOK_ENABLED=true")
	}
	webhookTimeout, err := time.ParseDuration(getEnv("WEBHOOK_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_TIMEOUT: %w", err)
	}
	if webhookTimeout <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_TIMEOUT must be > 0")
	}
	webhookRetries, err := getEnvAsInt("WEBHOOK_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_RETRIES: %w", err)
	}
	if webhookRetries < 0 {
		return Config{}, fmt.Errorf("WEBHOOK_RETRIES must be >= 0")
	}
	webhookCircuitEnabled, err := strconv.ParseBool(getEnv("WEBHOOK_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_ENABLED: %w", err)
	}
	webhookCircuitFailureCount, err := getEnvAsInt("WEBHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if webhookCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	webhookCircuitOpenTimeout, err := time.ParseDuration(getEnv("WEBHOOK_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if webhookCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	webhookCircuitHalfOpenMax, err := getEnvAsInt("WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if webhookCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	seasonNumber, err := getEnvAsInt("SEASON_NUMBER", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_NUMBER: %w", err)
	}
	if seasonNumber < 1 {
		return Config{}, fmt.Errorf("SEASON_NUMBER must be >= 1")
	}

	seasonTimezone, err := time.LoadLocation(getEnv("SEASON_TIMEZONE", "America/New_York"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_TIMEZONE: %w", err)
	}

	seasonPremiereDate, err := time.ParseInLocation("2006-01-02", getEnv("SEASON_PREMIERE_DATE", "2026-02-25"), seasonTimezone)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_PREMIERE_DATE: %w", err)
	}

	rosterLockWeekday, err := parseWeekday(getEnv("ROSTER_LOCK_WEEKDAY", "wednesday"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_LOCK_WEEKDAY: %w", err)
	}
	rosterLockHour, err := getEnvAsInt("ROSTER_LOCK_HOUR", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_LOCK_HOUR: %w", err)
	}
	if rosterLockHour < 0 || rosterLockHour > 23 {
		return Config{}, fmt.Errorf("ROSTER_LOCK_HOUR must be in [0,23]")
	}

	rosterSize, err := getEnvAsInt("ROSTER_SIZE", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROSTER_SIZE: %w", err)
	}
	if rosterSize < 1 {
		return Config{}, fmt.Errorf("ROSTER_SIZE must be >= 1")
	}
	netChangeCap, err := getEnvAsInt("NET_CHANGE_CAP", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse NET_CHANGE_CAP: %w", err)
	}
	if netChangeCap < 0 {
		return Config{}, fmt.Errorf("NET_CHANGE_CAP must be >= 0")
	}
	addDropRestrictionEnabled, err := strconv.ParseBool(getEnv("ADD_DROP_RESTRICTION_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ADD_DROP_RESTRICTION_ENABLED: %w", err)
	}

	eliminationScope, err := parseEliminationScope(getEnv("ELIMINATION_SCOPE", EliminationScopeGlobal))
	if err != nil {
		return Config{}, err
	}

	recomputeWorkers, err := getEnvAsInt("RECOMPUTE_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECOMPUTE_WORKERS: %w", err)
	}
	if recomputeWorkers < 1 {
		return Config{}, fmt.Errorf("RECOMPUTE_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "survivor-fantasy-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBURL:                   getEnv("DB_URL", ""),
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: corsAllowedOrigins,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		AuthBaseURL:             getEnv("AUTH_BASE_URL", "http://localhost:8081"),
		AuthIntrospectPath:      getEnv("AUTH_INTROSPECT_PATH", "/v1/auth/introspect"),
		AuthAdminKey:            getEnv("AUTH_ADMIN_KEY", ""),
		AuthTimeout:             authTimeout,
		AuthCircuitEnabled:      authCircuitEnabled,
		AuthCircuitFailureCount: authCircuitFailureCount,
		AuthCircuitOpenTimeout:  authCircuitOpenTimeout,
		AuthCircuitHalfOpenMax:  authCircuitHalfOpenMax,

		InternalAdminToken: strings.TrimSpace(getEnv("INTERNAL_ADMIN_TOKEN", "")),

		WebhookEnabled:             webhookEnabled,
		WebhookEndpoint:            webhookEndpoint,
		WebhookToken:               strings.TrimSpace(getEnv("WEBHOOK_TOKEN", "")),
		WebhookTimeout:             webhookTimeout,
		WebhookRetries:             webhookRetries,
		WebhookCircuitEnabled:      webhookCircuitEnabled,
		WebhookCircuitFailureCount: webhookCircuitFailureCount,
		WebhookCircuitOpenTimeout:  webhookCircuitOpenTimeout,
		WebhookCircuitHalfOpenMax:  webhookCircuitHalfOpenMax,

		SeasonNumber:       seasonNumber,
		SeasonName:         getEnv("SEASON_NAME", fmt.Sprintf("Season %d", seasonNumber)),
		SeasonPremiereDate: seasonPremiereDate,
		SeasonTimezone:     seasonTimezone,
		RosterLockWeekday:  rosterLockWeekday,
		RosterLockHour:     rosterLockHour,

		RosterSize:                rosterSize,
		NetChangeCap:              netChangeCap,
		AddDropRestrictionEnabled: addDropRestrictionEnabled,
		EliminationScope:          eliminationScope,

		RecomputeWorkers: recomputeWorkers,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseEliminationScope(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EliminationScopeGlobal, EliminationScopeLeague:
		return value, nil
	default:
		return "", fmt.Errorf("invalid ELIMINATION_SCOPE %q: valid values are %s, %s", v, EliminationScopeGlobal, EliminationScopeLeague)
	}
}

func parseWeekday(v string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("invalid weekday %q", v)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
