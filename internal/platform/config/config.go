package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	LogLevel          string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Base URLs every outbound link is built from
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	AppURL       string `mapstructure:"APP_URL"`

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_OAUTH_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_OAUTH_CLIENT_SECRET"`

	// Object storage
	GCSBucket          string
	GCSCredentialsJSON string
	SignedURLTTL       time.Duration

	// Sweep lock
	RedisAddr     string
	RedisPassword string

	// Email dispatch
	PubSubProjectID  string
	PubSubEmailTopic string
	EmailFrom        string

	// Billing
	BillingWebhookSecret string
	BillingCheckoutURL   string

	CronSecret string

	PosthogAPIKey   string
	PosthogEndpoint string

	// ulule/limiter formatted rate, e.g. "30-M"
	PublicRateLimit string
	// Region used to parse client phone numbers without a country code
	DefaultPhoneRegion string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "finorn")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:3000")
	viper.SetDefault("APP_URL", "http://localhost:8080")
	viper.SetDefault("GOOGLE_OAUTH_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_OAUTH_CLIENT_SECRET", "")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_CREDENTIALS_JSON", "")
	viper.SetDefault("SIGNED_URL_TTL_SECONDS", 300)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("PUBSUB_PROJECT_ID", "")
	viper.SetDefault("PUBSUB_EMAIL_TOPIC", "finorn-email")
	viper.SetDefault("EMAIL_FROM", "Finorn <no-reply@finorn.app>")
	viper.SetDefault("BILLING_WEBHOOK_SECRET", "")
	viper.SetDefault("BILLING_CHECKOUT_URL", "")
	viper.SetDefault("CRON_SECRET", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("PUBLIC_RATE_LIMIT", "30-M")
	viper.SetDefault("DEFAULT_PHONE_REGION", "US")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.ClientOrigin = strings.TrimRight(viper.GetString("CLIENT_ORIGIN"), "/")
	cfg.AppURL = strings.TrimRight(viper.GetString("APP_URL"), "/")

	cfg.GoogleClientID = viper.GetString("GOOGLE_OAUTH_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_OAUTH_CLIENT_SECRET")
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_OAUTH_CLIENT_ID or GOOGLE_OAUTH_CLIENT_SECRET not set. Google sign-in will not function.")
	}

	cfg.GCSBucket = viper.GetString("GCS_BUCKET")
	cfg.GCSCredentialsJSON = viper.GetString("GCS_CREDENTIALS_JSON")
	if cfg.GCSBucket == "" {
		log.Println("Warning: GCS_BUCKET not set. File uploads will fail.")
	}
	ttl := viper.GetInt("SIGNED_URL_TTL_SECONDS")
	if ttl <= 0 {
		ttl = 300
		log.Printf("Warning: Invalid SIGNED_URL_TTL_SECONDS. Defaulting to %d.\n", ttl)
	}
	cfg.SignedURLTTL = time.Duration(ttl) * time.Second

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Contract sweeps will run without a lock.")
	}

	cfg.PubSubProjectID = viper.GetString("PUBSUB_PROJECT_ID")
	cfg.PubSubEmailTopic = viper.GetString("PUBSUB_EMAIL_TOPIC")
	cfg.EmailFrom = viper.GetString("EMAIL_FROM")
	if cfg.PubSubProjectID == "" {
		log.Println("Warning: PUBSUB_PROJECT_ID not set. Emails will only be logged.")
	}

	cfg.BillingWebhookSecret = viper.GetString("BILLING_WEBHOOK_SECRET")
	cfg.BillingCheckoutURL = viper.GetString("BILLING_CHECKOUT_URL")
	if cfg.BillingWebhookSecret == "" {
		log.Println("Warning: BILLING_WEBHOOK_SECRET not set. Billing webhooks will be rejected.")
	}

	cfg.CronSecret = viper.GetString("CRON_SECRET")
	if cfg.CronSecret == "" {
		log.Println("Warning: CRON_SECRET not set. The sweep endpoint is disabled.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	cfg.PublicRateLimit = viper.GetString("PUBLIC_RATE_LIMIT")
	cfg.DefaultPhoneRegion = strings.ToUpper(viper.GetString("DEFAULT_PHONE_REGION"))

	return cfg, nil
}
