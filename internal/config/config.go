package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config корневая конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Auth          AuthConfig          `toml:"auth"`
	Google        GoogleConfig        `toml:"google"`
	Redis         RedisConfig         `toml:"redis"`
	Email         EmailConfig         `toml:"email"`
	WhatsApp      WhatsAppConfig      `toml:"whatsapp"`
	Notifications NotificationsConfig `toml:"notifications"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
	RateLimit     RateLimitConfig     `toml:"ratelimit"`
	Uploads       UploadsConfig       `toml:"uploads"`
	Salon         SalonConfig         `toml:"salon"`
}

type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`  // секунды
	WriteTimeout    int      `toml:"write_timeout"` // секунды
	IdleTimeout     int      `toml:"idle_timeout"`  // секунды
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл базы для sqlite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		// BEGIN IMMEDIATE берет блокировку записи сразу, иначе параллельные транзакции падают с SQLITE_BUSY
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate", d.Path)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// MigrateURL адрес базы в формате golang-migrate
func (d DatabaseConfig) MigrateURL() string {
	if d.Driver == "sqlite" {
		return "sqlite://" + d.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret        string `toml:"jwt_secret"`
	TokenTTLMinutes  int    `toml:"token_ttl_minutes"`
	Issuer           string `toml:"issuer"`
	AdminEmail       string `toml:"admin_email"`
	AdminPassword    string `toml:"admin_password"`
	AdminName        string `toml:"admin_name"`
	MaxLoginAttempts int    `toml:"max_login_attempts"`
	LockoutMinutes   int    `toml:"lockout_minutes"`
}

type GoogleConfig struct {
	Enabled      bool   `toml:"enabled"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
}

type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	SlotsTTLSeconds int    `toml:"slots_ttl_seconds"`
}

type EmailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	UseTLS   bool   `toml:"use_tls"`
	Timeout  int    `toml:"timeout"` // секунды
}

type WhatsAppConfig struct {
	Enabled       bool   `toml:"enabled"`
	APIURL        string `toml:"api_url"`
	PhoneNumberID string `toml:"phone_number_id"`
	Token         string `toml:"token"`
	Timeout       int    `toml:"timeout"` // секунды
}

type NotificationsConfig struct {
	Workers          int `toml:"workers"`
	QueueSize        int `toml:"queue_size"`
	MaxAttempts      int `toml:"max_attempts"`
	RetryBaseSeconds int `toml:"retry_base_seconds"`
	ReminderHours    int `toml:"reminder_hours"`
}

type SchedulerConfig struct {
	Enabled              bool `toml:"enabled"`
	RecurringInterval    int  `toml:"recurring_interval"` // секунды
	WaitlistInterval     int  `toml:"waitlist_interval"`
	ReminderInterval     int  `toml:"reminder_interval"`
	RecurringHorizonDays int  `toml:"recurring_horizon_days"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

type UploadsConfig struct {
	Dir       string `toml:"dir"`
	MaxBytes  int64  `toml:"max_bytes"`
	URLPrefix string `toml:"url_prefix"`
}

type SalonConfig struct {
	Name     string `toml:"name"`
	Timezone string `toml:"timezone"` // IANA, например Europe/Moscow
}

// Location часовой пояс салона; даты и время записей трактуются в нем
func (s SalonConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Load читает .env (если есть), затем TOML-файл, применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	// .env необязателен, но если он есть, то должен читаться
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrReadConfig, err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает конфигурацию из строки (без .env и файлов)
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_PASSWORD":          &c.Database.Password,
		"JWT_SECRET":           &c.Auth.JWTSecret,
		"ADMIN_PASSWORD":       &c.Auth.AdminPassword,
		"SMTP_PASSWORD":        &c.Email.Password,
		"WHATSAPP_TOKEN":       &c.WhatsApp.Token,
		"GOOGLE_CLIENT_SECRET": &c.Google.ClientSecret,
		"REDIS_PASSWORD":       &c.Redis.Password,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*target = v
		}
	}
}

func (c *Config) applyDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 15)
	setInt(&c.Server.WriteTimeout, 15)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)

	setString(&c.Database.Driver, "postgres")
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	setString(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setString(&c.Database.SSLMode, "disable")
	setString(&c.Database.Path, "salon.db")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)
	if c.Database.Driver == "sqlite" {
		// запись в SQLite однопоточная
		c.Database.MaxOpenConns = 1
		c.Database.MaxIdleConns = 1
	}

	setString(&c.Logs.Level, "info")
	setString(&c.Logs.File, "logs/app.log")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "nail-salon")

	setInt(&c.Auth.TokenTTLMinutes, 24*60)
	setString(&c.Auth.Issuer, "nail-salon")
	setString(&c.Auth.AdminName, "Administrator")
	setInt(&c.Auth.MaxLoginAttempts, 5)
	setInt(&c.Auth.LockoutMinutes, 15)

	setString(&c.Redis.Addr, "localhost:6379")
	setInt(&c.Redis.SlotsTTLSeconds, 300)

	setInt(&c.Email.Port, 587)
	setInt(&c.Email.Timeout, 10)

	setString(&c.WhatsApp.APIURL, "https://graph.facebook.com/v19.0")
	setInt(&c.WhatsApp.Timeout, 10)

	setInt(&c.Notifications.Workers, 2)
	setInt(&c.Notifications.QueueSize, 256)
	setInt(&c.Notifications.MaxAttempts, 3)
	setInt(&c.Notifications.RetryBaseSeconds, 2)
	setInt(&c.Notifications.ReminderHours, 24)

	setInt(&c.Scheduler.RecurringInterval, 3600)
	setInt(&c.Scheduler.WaitlistInterval, 60)
	setInt(&c.Scheduler.ReminderInterval, 900)
	setInt(&c.Scheduler.RecurringHorizonDays, 30)

	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 1
	}
	setInt(&c.RateLimit.Burst, 5)

	setString(&c.Uploads.Dir, "uploads")
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = 5 << 20
	}
	setString(&c.Uploads.URLPrefix, "/uploads/")

	setString(&c.Salon.Name, "Nail Salon")
	setString(&c.Salon.Timezone, "UTC")
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required (or JWT_SECRET env)", ErrInvalidConfig)
	}
	if c.Auth.AdminEmail != "" && len(c.Auth.AdminPassword) < 8 {
		return fmt.Errorf("%w: auth.admin_password must be at least 8 characters", ErrInvalidConfig)
	}
	if c.Google.Enabled && (c.Google.ClientID == "" || c.Google.ClientSecret == "" || c.Google.RedirectURL == "") {
		return fmt.Errorf("%w: google sign-in requires client_id, client_secret and redirect_url", ErrInvalidConfig)
	}
	if c.Email.Enabled && (c.Email.Host == "" || c.Email.From == "") {
		return fmt.Errorf("%w: email requires host and from", ErrInvalidConfig)
	}
	if c.WhatsApp.Enabled && (c.WhatsApp.PhoneNumberID == "" || c.WhatsApp.Token == "") {
		return fmt.Errorf("%w: whatsapp requires phone_number_id and token", ErrInvalidConfig)
	}
	if _, err := c.Salon.Location(); err != nil {
		return fmt.Errorf("%w: salon.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if strings.TrimSpace(*v) == "" {
		*v = def
	}
}
