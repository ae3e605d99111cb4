package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Schedule ScheduleConfig
	Policy   PolicyConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret               string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration  string `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration string `envconfig:"JWT_REFRESH_TOKEN_DURATION" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// ScheduleConfig drives slot enumeration and booking-window validation.
// Open intervals apply uniformly to every configured business day;
// weekdays follow time.Weekday numbering (Sunday=0).
type ScheduleConfig struct {
	TimeZone            string   `envconfig:"SCHEDULE_TIMEZONE" default:"Asia/Tokyo"`
	BusinessDays        []int    `envconfig:"SCHEDULE_BUSINESS_DAYS" default:"1,2,3,4,5"`
	OpenIntervals       []string `envconfig:"SCHEDULE_OPEN_INTERVALS" default:"09:00-12:00,13:00-18:00"`
	SlotGranularityMin  int      `envconfig:"SCHEDULE_SLOT_GRANULARITY_MIN" default:"30"`
	MinAdvanceHours     int      `envconfig:"SCHEDULE_MIN_ADVANCE_HOURS" default:"24"`
	MaxAdvanceDays      int      `envconfig:"SCHEDULE_MAX_ADVANCE_DAYS" default:"90"`
	MaxAlternatives     int      `envconfig:"SCHEDULE_MAX_ALTERNATIVES" default:"6"`
	AlternativeScanDays int      `envconfig:"SCHEDULE_ALTERNATIVE_SCAN_DAYS" default:"5"`
	ReminderLeadHours   int      `envconfig:"SCHEDULE_REMINDER_LEAD_HOURS" default:"24"`
}

// PolicyConfig holds the refund/fee tier table shared by the cancellation
// and rescheduling calculators. Each entry is
// "minHoursBefore:refundPct:feePct:severity", ordered from most to least
// advance notice; the last entry is the floor for everything below it.
type PolicyConfig struct {
	Tiers            []string `envconfig:"POLICY_TIERS" default:"48:100:0:low,24:50:25:medium,1:0:50:high,0:0:100:high"`
	MinRescheduleHrs int      `envconfig:"POLICY_MIN_RESCHEDULE_HOURS" default:"1"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:               "test-secret-key-for-e2e",
			AccessTokenDuration:  "15m",
			RefreshTokenDuration: "168h",
		},
		Cookie: CookieConfig{
			Domain:   "",
			Secure:   false,
			SameSite: "Lax",
		},
		Schedule: ScheduleConfig{
			TimeZone:            "Asia/Tokyo",
			BusinessDays:        []int{1, 2, 3, 4, 5},
			OpenIntervals:       []string{"09:00-12:00", "13:00-18:00"},
			SlotGranularityMin:  30,
			MinAdvanceHours:     24,
			MaxAdvanceDays:      90,
			MaxAlternatives:     6,
			AlternativeScanDays: 5,
			ReminderLeadHours:   24,
		},
		Policy: PolicyConfig{
			Tiers:            []string{"48:100:0:low", "24:50:25:medium", "1:0:50:high", "0:0:100:high"},
			MinRescheduleHrs: 1,
		},
	}
}
