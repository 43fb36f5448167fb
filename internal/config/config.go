package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
	// Timezone is the single civil zone for the whole deployment. All
	// cutoff arithmetic is civil-time based, never UTC-based.
	Timezone string
}

// AttendanceConfig exposes the business constants of the attendance engine.
// The defaults are the values the policy was designed around.
type AttendanceConfig struct {
	// CutoffOffset is subtracted from the shift end time to get the
	// absence cutoff.
	CutoffOffset time.Duration
	// GraceWindow protects freshly provisioned records from being marked
	// absent immediately.
	GraceWindow time.Duration
	// HalfDayHours and FullDayHours are the worked-hour thresholds for
	// the check-out status decision.
	HalfDayHours float64
	FullDayHours float64
	// BackfillDays is the lookback window for the catch-up sweep.
	BackfillDays int
	// ProvisionDelay shifts daily provisioning past local midnight.
	ProvisionDelay time.Duration
	// CheckpointTimes are the times of day at which today's pending
	// records are reconciled; they bracket the cutoffs of all shift
	// categories.
	CheckpointTimes []civil.TimeOfDay
	// FinalPassTime is the end-of-day sweep that ignores the grace window.
	FinalPassTime civil.TimeOfDay
	// BackfillInterval spaces the periodic multi-day sweeps.
	BackfillInterval time.Duration
	// StoreTimeout bounds every individual store access.
	StoreTimeout time.Duration
}

func Load() (*Config, error) {
	// Optional in production; the environment may already be populated.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrkit-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Kolkata"),
	}

	// Attendance engine constants
	cutoffOffset, err := time.ParseDuration(getEnv("ATTENDANCE_CUTOFF_OFFSET", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_CUTOFF_OFFSET: %w", err)
	}
	graceWindow, err := time.ParseDuration(getEnv("ATTENDANCE_GRACE_WINDOW", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_WINDOW: %w", err)
	}
	halfDayHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_HALF_DAY_HOURS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_HOURS: %w", err)
	}
	fullDayHours, err := strconv.ParseFloat(getEnv("ATTENDANCE_FULL_DAY_HOURS", "9"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_FULL_DAY_HOURS: %w", err)
	}
	backfillDays, err := strconv.Atoi(getEnv("ATTENDANCE_BACKFILL_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_BACKFILL_DAYS: %w", err)
	}
	provisionDelay, err := time.ParseDuration(getEnv("ATTENDANCE_PROVISION_DELAY", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_PROVISION_DELAY: %w", err)
	}
	checkpointTimes, err := parseTimesOfDay(getEnv(
		"ATTENDANCE_CHECKPOINT_TIMES",
		"03:00:00,08:30:00,11:00:00,14:00:00,16:00:00,18:00:00,20:00:00,22:00:00",
	))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_CHECKPOINT_TIMES: %w", err)
	}
	finalPassTime, err := civil.ParseTimeOfDay(getEnv("ATTENDANCE_FINAL_PASS_TIME", "23:30:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_FINAL_PASS_TIME: %w", err)
	}
	backfillInterval, err := time.ParseDuration(getEnv("ATTENDANCE_BACKFILL_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_BACKFILL_INTERVAL: %w", err)
	}
	storeTimeout, err := time.ParseDuration(getEnv("ATTENDANCE_STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STORE_TIMEOUT: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CutoffOffset:     cutoffOffset,
		GraceWindow:      graceWindow,
		HalfDayHours:     halfDayHours,
		FullDayHours:     fullDayHours,
		BackfillDays:     backfillDays,
		ProvisionDelay:   provisionDelay,
		CheckpointTimes:  checkpointTimes,
		FinalPassTime:    finalPassTime,
		BackfillInterval: backfillInterval,
		StoreTimeout:     storeTimeout,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	if c.Attendance.CutoffOffset <= 0 {
		return fmt.Errorf("ATTENDANCE_CUTOFF_OFFSET must be positive")
	}
	if c.Attendance.GraceWindow < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_WINDOW must not be negative")
	}
	if c.Attendance.HalfDayHours >= c.Attendance.FullDayHours {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must be below ATTENDANCE_FULL_DAY_HOURS")
	}
	if c.Attendance.BackfillDays < 0 {
		return fmt.Errorf("ATTENDANCE_BACKFILL_DAYS must not be negative")
	}
	if len(c.Attendance.CheckpointTimes) == 0 {
		return fmt.Errorf("ATTENDANCE_CHECKPOINT_TIMES is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves the deployment timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseTimesOfDay(value string) ([]civil.TimeOfDay, error) {
	parts := strings.Split(value, ",")
	times := make([]civil.TimeOfDay, 0, len(parts))
	for _, part := range parts {
		tod, err := civil.ParseTimeOfDay(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		times = append(times, tod)
	}
	return times, nil
}
