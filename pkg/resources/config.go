package resources

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	DefaultUniversities = []string{
		"TUM", "LMU", "HM", "THI", "FAU",
		"Uni Augsburg", "Uni Bayreuth", "Uni Regensburg", "Uni Würzburg", "Uni Passau",
	}
	DefaultTopics = []string{
		"AI", "Business", "Robotics", "Software", "Legal", "Data Science",
		"Product", "Design", "Cybersecurity", "Finance", "Blockchain",
	}
)

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
	Migrate  bool
}

// URL builds the connection string for scheme ("postgres", "pgx5").
func (c DatabaseConfig) URL(scheme string) string {
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Name,
	}

	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}

	return u.String()
}

type Config struct {
	Name    string
	Version string
	Env     string

	LogLevel  string
	HTTPHost  string
	HTTPPort  string
	DebugPort string

	Database DatabaseConfig

	AuthJWTSecret string
	AuthAdminRole string

	Timezone          string
	FormSuccessDelay  time.Duration
	RelaySuccessDelay time.Duration

	WebhookURL     string
	WebhookTimeout time.Duration

	ClubUniversities []string
	ClubTopics       []string

	OtelEnabled  bool
	OtelEndpoint string
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_HOST", "0.0.0.0")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DEBUG_PORT", "6060")

	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "postgres")
	viper.SetDefault("DB_SSLMODE", "prefer")
	viper.SetDefault("DB_MIGRATE", false)

	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("AUTH_ADMIN_ROLE", "admin")

	viper.SetDefault("APP_TIMEZONE", "Europe/Berlin")
	viper.SetDefault("FORM_SUCCESS_DELAY", time.Second)
	viper.SetDefault("RELAY_SUCCESS_DELAY", 3*time.Second)

	viper.SetDefault("WEBHOOK_URL", "")
	viper.SetDefault("WEBHOOK_TIMEOUT", 10*time.Second)

	viper.SetDefault("CLUB_UNIVERSITIES", strings.Join(DefaultUniversities, ","))
	viper.SetDefault("CLUB_TOPICS", strings.Join(DefaultTopics, ","))

	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_ENDPOINT", "localhost:4317")
}

// Configure loads .env and the environment, sets up the global logger and
// returns a context carrying it.
func Configure(ctx context.Context, name string, version string) (context.Context, Config) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("unable to read .env file")
	}

	viper.AutomaticEnv()
	setDefaults()

	cfg := LoadConfig(name, version)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().
		Str("service", name).Str("version", version).Str("env", cfg.Env).
		Logger()

	return log.Logger.WithContext(ctx), cfg
}

// LoadConfig reads the current viper state.
func LoadConfig(name string, version string) Config {
	return Config{
		Name:      name,
		Version:   version,
		Env:       viper.GetString("APP_ENV"),
		LogLevel:  viper.GetString("LOG_LEVEL"),
		HTTPHost:  viper.GetString("HTTP_HOST"),
		HTTPPort:  viper.GetString("HTTP_PORT"),
		DebugPort: viper.GetString("DEBUG_PORT"),
		Database: DatabaseConfig{
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		AuthJWTSecret:     viper.GetString("AUTH_JWT_SECRET"),
		AuthAdminRole:     viper.GetString("AUTH_ADMIN_ROLE"),
		Timezone:          viper.GetString("APP_TIMEZONE"),
		FormSuccessDelay:  viper.GetDuration("FORM_SUCCESS_DELAY"),
		RelaySuccessDelay: viper.GetDuration("RELAY_SUCCESS_DELAY"),
		WebhookURL:        viper.GetString("WEBHOOK_URL"),
		WebhookTimeout:    viper.GetDuration("WEBHOOK_TIMEOUT"),
		ClubUniversities:  splitList(viper.GetString("CLUB_UNIVERSITIES")),
		ClubTopics:        splitList(viper.GetString("CLUB_TOPICS")),
		OtelEnabled:       viper.GetBool("OTEL_ENABLED"),
		OtelEndpoint:      viper.GetString("OTEL_ENDPOINT"),
	}
}

func splitList(value string) []string {
	var out []string

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}
