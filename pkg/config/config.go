package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	// Record files
	DataDir            string
	AccountFile        string
	TransactionFile    string
	AccountRequestFile string
	CustomerFile       string

	// Manager authentication
	JWTSecret           string
	JWTExpiryDuration   time.Duration
	JWTIssuer           string
	ManagerUsername     string
	ManagerPasswordHash string
	TellerUsername      string
	TellerPasswordHash  string
	LoginRateLimit      string

	// Ledger rules
	FXRates                map[string]decimal.Decimal
	CreditLimitDefault     decimal.Decimal
	ChequingOverdraftLimit decimal.Decimal

	CORSAllowedOrigins []string
}

const (
	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer = "atm-ledger"
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("ACCOUNT_FILE", "accounts.txt")
	v.SetDefault("TRANSACTION_FILE", "transactions.txt")
	v.SetDefault("ACCOUNT_REQUEST_FILE", "account_requests.txt")
	v.SetDefault("CUSTOMER_FILE", "customers.txt")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("MANAGER_USERNAME", "manager")
	v.SetDefault("MANAGER_PASSWORD_HASH", "")
	v.SetDefault("TELLER_USERNAME", "teller")
	v.SetDefault("TELLER_PASSWORD_HASH", "")
	v.SetDefault("FX_RATES", "USD=1.35")
	v.SetDefault("CREDIT_LIMIT_DEFAULT", "1000.00")
	v.SetDefault("CHEQUING_OVERDRAFT_LIMIT", "100.00")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		DataDir:             v.GetString("DATA_DIR"),
		AccountFile:         v.GetString("ACCOUNT_FILE"),
		TransactionFile:     v.GetString("TRANSACTION_FILE"),
		AccountRequestFile:  v.GetString("ACCOUNT_REQUEST_FILE"),
		CustomerFile:        v.GetString("CUSTOMER_FILE"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		ManagerUsername:     v.GetString("MANAGER_USERNAME"),
		ManagerPasswordHash: v.GetString("MANAGER_PASSWORD_HASH"),
		TellerUsername:      v.GetString("TELLER_USERNAME"),
		TellerPasswordHash:  v.GetString("TELLER_PASSWORD_HASH"),
		LoginRateLimit:      v.GetString("LOGIN_RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", v.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiry <= 0 {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
	}

	if cfg.ManagerPasswordHash == "" {
		log.Println("Warning: MANAGER_PASSWORD_HASH not set. Manager login is disabled.")
	}
	if cfg.TellerPasswordHash == "" {
		log.Println("Warning: TELLER_PASSWORD_HASH not set. Teller login is disabled.")
	}
	if cfg.TellerUsername != "" && cfg.TellerUsername == cfg.ManagerUsername {
		return nil, fmt.Errorf("TELLER_USERNAME and MANAGER_USERNAME must differ")
	}

	if cfg.FXRates, err = ParseRates(v.GetString("FX_RATES")); err != nil {
		return nil, fmt.Errorf("invalid FX_RATES: %w", err)
	}
	if cfg.CreditLimitDefault, err = parseAmount(v, "CREDIT_LIMIT_DEFAULT"); err != nil {
		return nil, err
	}
	if cfg.ChequingOverdraftLimit, err = parseAmount(v, "CHEQUING_OVERDRAFT_LIMIT"); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	return cfg, nil
}

// ParseRates parses a rate table such as "USD=1.35,EUR=1.47". Codes are upper-cased.
func ParseRates(s string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	for _, pair := range splitList(s) {
		code, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected CODE=RATE, got '%s'", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("rate for %s: %w", code, err)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}

func parseAmount(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
