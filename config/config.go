package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	BaseURL           string `mapstructure:"BASE_URL"`
	MembershipBaseURL string `mapstructure:"MEMBERSHIP_BASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	LogFile           string `mapstructure:"LOG_FILE"`

	// Actor credentials.
	CountryCode         string `mapstructure:"COUNTRY_CODE"`
	StaticOTP           string `mapstructure:"STATIC_OTP"`
	MemberMobile        string `mapstructure:"MEMBER_MOBILE"`
	NonMemberMobile     string `mapstructure:"NON_MEMBER_MOBILE"`
	NewUserMobilePrefix string `mapstructure:"NEW_USER_MOBILE_PREFIX"`
	PhleboMobile        string `mapstructure:"PHLEBO_MOBILE"`
	PhleboPassword      string `mapstructure:"PHLEBO_PASSWORD"`

	// Flow tuning.
	Products         []string `mapstructure:"PRODUCTS"`
	DefaultLocation  string   `mapstructure:"DEFAULT_LOCATION"`
	DefaultBrand     string   `mapstructure:"DEFAULT_BRAND"`
	SlotHorizonDays  int      `mapstructure:"SLOT_HORIZON_DAYS"`
	CODLimit         int      `mapstructure:"COD_LIMIT"`
	RequestTimeoutMS int      `mapstructure:"REQUEST_TIMEOUT_MS"`
	SagaDeadlineMS   int      `mapstructure:"SAGA_DEADLINE_MS"`
	RequestsPerMin   int      `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Pricing policy. "lowest-wins" follows the observed backend behaviour;
	// "discount-rate-wins" and "membership-price-wins" trust one field outright.
	MemberPricePolicy string   `mapstructure:"MEMBER_PRICE_POLICY"`
	KnownBadProducts  []string `mapstructure:"KNOWN_BAD_PRODUCTS"`

	// Optional Redis cache for the location/brand directory. Empty addr disables it.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	DirectoryTTL  int    `mapstructure:"DIRECTORY_TTL_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("BASE_URL", "https://dev-api-yodadiagnostics.yodaprojects.com")
	viper.SetDefault("MEMBERSHIP_BASE_URL", "https://dev-api-yodamembership.yodaprojects.com")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "logs/labprobe.log")
	viper.SetDefault("COUNTRY_CODE", "+91")
	viper.SetDefault("STATIC_OTP", "123456")
	viper.SetDefault("NEW_USER_MOBILE_PREFIX", "988")
	viper.SetDefault("PRODUCTS", []string{"CBC", "Vitamin D - 25 Hydroxy", "Thyroid Profile - Total"})
	viper.SetDefault("DEFAULT_LOCATION", "Madhapur")
	viper.SetDefault("DEFAULT_BRAND", "Diagnostics")
	viper.SetDefault("SLOT_HORIZON_DAYS", 30)
	viper.SetDefault("COD_LIMIT", 2500)
	viper.SetDefault("REQUEST_TIMEOUT_MS", 15000)
	viper.SetDefault("SAGA_DEADLINE_MS", 600000)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("MEMBER_PRICE_POLICY", "lowest-wins")
	viper.SetDefault("KNOWN_BAD_PRODUCTS", []string{"TESTING15"})
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("DIRECTORY_TTL_MIN", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// RequestTimeout returns the per-call timeout for remote requests.
func RequestTimeout() time.Duration {
	ms := AppConfig.RequestTimeoutMS
	if ms <= 0 {
		ms = 15000
	}
	return time.Duration(ms) * time.Millisecond
}

// SagaDeadline returns the total deadline for one actor's order flow.
func SagaDeadline() time.Duration {
	ms := AppConfig.SagaDeadlineMS
	if ms <= 0 {
		ms = 600000
	}
	return time.Duration(ms) * time.Millisecond
}
