package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
)

type Config struct {
	Port                int           // HTTP server port (default: 5000)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DatabaseFile string // Path to the SQLite database file (default: ./castrack.db)
	PepperFile   string // Path to the password pepper file (default: ./pepper)

	JWTAlgorithm      string        // HS256 or EdDSA (default: HS256)
	JWTSecret         string        // Required for HS256, at least 32 bytes
	JWTPrivateKeyFile string        // EdDSA PKCS8 key, generated when missing (default: ./jwt_ed25519.pem)
	JWTIssuer         string        // Issuer claim (default: castrack)
	CredentialTTL     time.Duration // Credential lifetime (default: 24h)

	EmailDomain        string // Accepted signup domain (default: @fountainheadschools.org)
	AdminEmail         string // Reserved administrator account (default: admin@fountainheadschools.org)
	AdminPassword      string // Initial administrator password, generated when empty
	AdminRecoveryEmail string // Receives regenerated admin passwords (default: AdminEmail)

	NotifyDriver   string // console, ses or sendgrid (default: console)
	NotifyFrom     string // Sender address for ses and sendgrid
	NotifyFromName string // Sender display name (default: CAS Tracker)
	AWSRegion      string // Required for ses
	SendGridAPIKey string // Required for sendgrid

	EvidenceDriver   string // disk or b2 (default: disk)
	EvidenceDir      string // Root for the disk driver (default: ./uploads)
	B2AccountID      string // Required for b2
	B2ApplicationKey string // Required for b2
	B2Bucket         string // Required for b2
	MaxUploadBytes   int64  // Cap on one multipart submission (default: 256 MiB)

	OutboxInterval       time.Duration // Notification delivery poll (default: 10s)
	OutboxMaxAttempts    int           // Attempts before a notification is failed (default: 5)
	HousekeepingInterval time.Duration // Expired data cleanup (default: 1h)
}

// LoadConfig reads .env files when present, then the environment.
// Existing environment variables always win over .env values.
func LoadConfig() (Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "dev"
	}
	for _, path := range []string{".env." + env, ".env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	cfg := fromViper(newViper())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("port", 5000)
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_grace_period", 10*time.Second)

	v.SetDefault("database_file", "castrack.db")
	v.SetDefault("pepper_file", "pepper")

	v.SetDefault("jwt_algorithm", jwtx.AlgorithmHS256)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_private_key_file", "jwt_ed25519.pem")
	v.SetDefault("jwt_issuer", "castrack")
	v.SetDefault("credential_ttl", jwtx.DefaultCredentialTTL)

	v.SetDefault("email_domain", service.DefaultEmailDomain)
	v.SetDefault("admin_email", service.DefaultAdminEmail)
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_recovery_email", "")

	v.SetDefault("notify_driver", "console")
	v.SetDefault("notify_from", "")
	v.SetDefault("notify_from_name", "CAS Tracker")
	v.SetDefault("aws_region", "")
	v.SetDefault("sendgrid_api_key", "")

	v.SetDefault("evidence_driver", "disk")
	v.SetDefault("evidence_dir", "uploads")
	v.SetDefault("b2_account_id", "")
	v.SetDefault("b2_application_key", "")
	v.SetDefault("b2_bucket", "")
	v.SetDefault("max_upload_bytes", int64(256<<20))

	v.SetDefault("outbox_interval", service.DefaultOutboxInterval)
	v.SetDefault("outbox_max_attempts", service.DefaultMaxAttempts)
	v.SetDefault("housekeeping_interval", time.Hour)

	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:                v.GetInt("port"),
		Env:                 strings.ToLower(v.GetString("env")),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
		ShutdownGracePeriod: v.GetDuration("shutdown_grace_period"),

		DatabaseFile: v.GetString("database_file"),
		PepperFile:   v.GetString("pepper_file"),

		JWTAlgorithm:      v.GetString("jwt_algorithm"),
		JWTSecret:         v.GetString("jwt_secret"),
		JWTPrivateKeyFile: v.GetString("jwt_private_key_file"),
		JWTIssuer:         v.GetString("jwt_issuer"),
		CredentialTTL:     v.GetDuration("credential_ttl"),

		EmailDomain:        v.GetString("email_domain"),
		AdminEmail:         strings.ToLower(strings.TrimSpace(v.GetString("admin_email"))),
		AdminPassword:      v.GetString("admin_password"),
		AdminRecoveryEmail: v.GetString("admin_recovery_email"),

		NotifyDriver:   strings.ToLower(v.GetString("notify_driver")),
		NotifyFrom:     v.GetString("notify_from"),
		NotifyFromName: v.GetString("notify_from_name"),
		AWSRegion:      v.GetString("aws_region"),
		SendGridAPIKey: v.GetString("sendgrid_api_key"),

		EvidenceDriver:   strings.ToLower(v.GetString("evidence_driver")),
		EvidenceDir:      v.GetString("evidence_dir"),
		B2AccountID:      v.GetString("b2_account_id"),
		B2ApplicationKey: v.GetString("b2_application_key"),
		B2Bucket:         v.GetString("b2_bucket"),
		MaxUploadBytes:   v.GetInt64("max_upload_bytes"),

		OutboxInterval:       v.GetDuration("outbox_interval"),
		OutboxMaxAttempts:    v.GetInt("outbox_max_attempts"),
		HousekeepingInterval: v.GetDuration("housekeeping_interval"),
	}

	if cfg.AdminRecoveryEmail == "" {
		cfg.AdminRecoveryEmail = cfg.AdminEmail
	}
	return cfg
}

// Validate reports every setting that would stop the service from starting.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}

	if c.Port <= 0 || c.Port > 65535 {
		add("PORT %d out of range", c.Port)
	}

	switch c.JWTAlgorithm {
	case jwtx.AlgorithmHS256:
		if len(c.JWTSecret) < 32 {
			add("JWT_SECRET must be at least 32 bytes for HS256")
		}
	case jwtx.AlgorithmEdDSA:
		if c.JWTPrivateKeyFile == "" {
			add("JWT_PRIVATE_KEY_FILE is required for EdDSA")
		}
	default:
		add("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm)
	}
	if c.CredentialTTL <= 0 {
		add("CREDENTIAL_TTL must be positive")
	}
	if !strings.HasPrefix(c.EmailDomain, "@") {
		add("EMAIL_DOMAIN must start with @")
	}
	if c.AdminEmail == "" {
		add("ADMIN_EMAIL is required")
	}

	switch c.NotifyDriver {
	case "console":
	case "ses":
		if c.AWSRegion == "" || c.NotifyFrom == "" {
			add("AWS_REGION and NOTIFY_FROM are required for the ses driver")
		}
	case "sendgrid":
		if c.SendGridAPIKey == "" || c.NotifyFrom == "" {
			add("SENDGRID_API_KEY and NOTIFY_FROM are required for the sendgrid driver")
		}
	default:
		add("NOTIFY_DRIVER %q is not supported", c.NotifyDriver)
	}

	switch c.EvidenceDriver {
	case "disk":
		if c.EvidenceDir == "" {
			add("EVIDENCE_DIR is required for the disk driver")
		}
	case "b2":
		if c.B2AccountID == "" || c.B2ApplicationKey == "" || c.B2Bucket == "" {
			add("B2_ACCOUNT_ID, B2_APPLICATION_KEY and B2_BUCKET are required for the b2 driver")
		}
	default:
		add("EVIDENCE_DRIVER %q is not supported", c.EvidenceDriver)
	}

	if c.MaxUploadBytes <= 0 {
		add("MAX_UPLOAD_BYTES must be positive")
	}
	if c.OutboxMaxAttempts < 1 {
		add("OUTBOX_MAX_ATTEMPTS must be at least 1")
	}

	return errors.Join(errs...)
}
