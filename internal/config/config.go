package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"earnx-backend/internal/utils"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Mail      MailConfig      `yaml:"mail"`
	JWT       JWTConfig       `yaml:"jwt"`
	Admin     AdminConfig     `yaml:"admin"`
	Log       LogConfig       `yaml:"log"`
	Rewards   RewardsConfig   `yaml:"rewards"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// TelegramConfig contains the outbound notification channel settings
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	APIBase  string `yaml:"api_base"`
}

// MailConfig contains SendGrid settings for admin operational alerts
type MailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	AdminEmail     string `yaml:"admin_email"`
}

// JWTConfig contains admin token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// AdminConfig identifies the single privileged operator
type AdminConfig struct {
	ID           int64  `yaml:"id"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// TierConfig is one step of the reward schedule
type TierConfig struct {
	MinApproved int32   `yaml:"min_approved"`
	Rate        float64 `yaml:"rate"`
}

// RewardsConfig contains the monetary rules. It is loaded once and passed
// to the workflow services as an immutable value.
type RewardsConfig struct {
	WithdrawalFeePercent  float64      `yaml:"withdrawal_fee_percent"`
	WithdrawalFeeMinimum  float64      `yaml:"withdrawal_fee_minimum"`
	MinWithdrawal         float64      `yaml:"min_withdrawal"`
	MaxWithdrawalsPerDay  int          `yaml:"max_withdrawals_per_day"`
	MaxPendingWithdrawals int          `yaml:"max_pending_withdrawals"`
	SubmitCooldownSeconds int          `yaml:"submit_cooldown_seconds"`
	ReferralReward        float64      `yaml:"referral_reward"`
	ChannelBonus          float64      `yaml:"channel_bonus"`
	AllowedDomains        []string     `yaml:"allowed_domains"`
	Tiers                 []TierConfig `yaml:"reward_tiers"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReconcileBalances string `yaml:"reconcile_balances"`
	StatsSnapshot     string `yaml:"stats_snapshot"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("BOT_TOKEN"); val != "" {
		c.Telegram.BotToken = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Mail.SendGridAPIKey = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}
	if val := os.Getenv("ADMIN_ID"); val != "" {
		fmt.Sscanf(val, "%d", &c.Admin.ID)
	}
	if val := os.Getenv("ADMIN_PASSWORD_HASH"); val != "" {
		c.Admin.PasswordHash = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	if c.Admin.ID == 0 {
		return fmt.Errorf("admin id is required")
	}
	if c.Admin.PasswordHash == "" {
		return fmt.Errorf("admin password hash is required")
	}

	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Rewards defaults
	r := &c.Rewards
	if r.WithdrawalFeePercent == 0 {
		r.WithdrawalFeePercent = 5
	}
	if r.WithdrawalFeeMinimum == 0 {
		r.WithdrawalFeeMinimum = 5
	}
	if r.MinWithdrawal == 0 {
		r.MinWithdrawal = 100
	}
	if r.MaxWithdrawalsPerDay == 0 {
		r.MaxWithdrawalsPerDay = 3
	}
	if r.MaxPendingWithdrawals == 0 {
		r.MaxPendingWithdrawals = 2
	}
	if r.SubmitCooldownSeconds == 0 {
		r.SubmitCooldownSeconds = 20
	}
	if r.ReferralReward == 0 {
		r.ReferralReward = 5
	}
	if r.ChannelBonus == 0 {
		r.ChannelBonus = 1
	}
	if len(r.AllowedDomains) == 0 {
		r.AllowedDomains = []string{"gmail.com"}
	}
	if len(r.Tiers) == 0 {
		r.Tiers = []TierConfig{
			{MinApproved: 0, Rate: 20},
			{MinApproved: 50, Rate: 25},
			{MinApproved: 100, Rate: 30},
		}
	}

	// Scheduler defaults (UTC, with seconds field)
	if c.Scheduler.ReconcileBalances == "" {
		c.Scheduler.ReconcileBalances = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.StatsSnapshot == "" {
		c.Scheduler.StatsSnapshot = "0 30 2 * * *" // 2:30 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// FeePercent returns the withdrawal fee percentage as a decimal
func (r *RewardsConfig) FeePercent() decimal.Decimal {
	return decimal.NewFromFloat(r.WithdrawalFeePercent)
}

// FeeMinimum returns the minimum withdrawal fee as a decimal
func (r *RewardsConfig) FeeMinimum() decimal.Decimal {
	return decimal.NewFromFloat(r.WithdrawalFeeMinimum)
}

// MinWithdrawalAmount returns the minimum gross withdrawal as a decimal
func (r *RewardsConfig) MinWithdrawalAmount() decimal.Decimal {
	return decimal.NewFromFloat(r.MinWithdrawal)
}

// ReferralRewardAmount returns the per-referral reward as a decimal
func (r *RewardsConfig) ReferralRewardAmount() decimal.Decimal {
	return decimal.NewFromFloat(r.ReferralReward)
}

// ChannelBonusAmount returns the one-time channel bonus as a decimal
func (r *RewardsConfig) ChannelBonusAmount() decimal.Decimal {
	return decimal.NewFromFloat(r.ChannelBonus)
}

// RewardTiers converts the configured schedule for the tier calculator
func (r *RewardsConfig) RewardTiers() []utils.RewardTier {
	tiers := make([]utils.RewardTier, 0, len(r.Tiers))
	for _, t := range r.Tiers {
		tiers = append(tiers, utils.RewardTier{
			MinApproved: t.MinApproved,
			Rate:        decimal.NewFromFloat(t.Rate),
		})
	}
	return tiers
}
