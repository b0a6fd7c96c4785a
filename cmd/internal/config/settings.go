package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/labstack/gommon/log"
)

// Settings is read once at start-up and handed to the constructors that need it.
type Settings struct {
	Port      string
	LogLevel  log.Lvl
	BodyLimit string

	DBDriver string
	DBDSN    string

	StorageProvider    string
	S3Region           string
	S3Bucket           string
	GCSBucket          string
	GCSCredentialsJSON string

	CognitoRegion      string
	CognitoUserPoolID  string
	CognitoAppClientID string
	AdminEmails        []string

	MailProvider   string
	ResendAPIKey   string
	SendGridAPIKey string
	FromEmail      string
	MailTo         string

	// Presence of the raw mail variables, before any default applies.
	ResendAPIKeySet bool
	FromEmailSet    bool
	MailToSet       bool

	MinhaReceitaURL string

	SnowflakeNode        int64
	Location             *time.Location
	CompanyCacheSchedule string
}

const (
	DefaultFromEmail = "TreinoExpresso <onboarding@resend.dev>"
	DefaultMailTo    = "marcelo@treinexpresso.com.br"
)

func FromEnv() (*Settings, error) {
	s := &Settings{
		Port:      getEnv("PORT", "7070"),
		BodyLimit: getEnv("BODY_LIMIT", "30M"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:    getEnv("DB_DSN", "database.db"),

		StorageProvider:    strings.ToLower(getEnv("STORAGE_PROVIDER", "s3")),
		S3Region:           os.Getenv("AWS_S3_REGION"),
		S3Bucket:           os.Getenv("S3_BUCKET_NAME"),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCSCredentialsJSON: os.Getenv("GCS_CREDENTIALS_JSON"),

		CognitoRegion:      os.Getenv("AWS_COGNITO_REGION"),
		CognitoUserPoolID:  os.Getenv("COGNITO_USER_POOL_ID"),
		CognitoAppClientID: os.Getenv("COGNITO_APP_CLIENT_ID"),
		AdminEmails:        splitList(getEnv("ADMIN_EMAILS", DefaultMailTo)),

		MailProvider:   strings.ToLower(getEnv("MAIL_PROVIDER", "resend")),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		FromEmail:      getEnv("FROM_EMAIL", DefaultFromEmail),
		MailTo:         getEnv("MAIL_TO", DefaultMailTo),

		ResendAPIKeySet: isSet("RESEND_API_KEY"),
		FromEmailSet:    isSet("FROM_EMAIL"),
		MailToSet:       isSet("MAIL_TO"),

		MinhaReceitaURL: os.Getenv("MINHA_RECEITA_URL"),

		CompanyCacheSchedule: getEnv("COMPANY_CACHE_SCHEDULE", "@every 1h"),
	}

	lvl, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	s.LogLevel = lvl

	node, err := strconv.ParseInt(getEnv("SNOWFLAKE_NODE", "1"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SNOWFLAKE_NODE: %w", err)
	}
	s.SnowflakeNode = node

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	s.Location = loc

	switch s.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}

	switch s.StorageProvider {
	case "s3", "gcs":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_PROVIDER %q", s.StorageProvider)
	}

	switch s.MailProvider {
	case "resend", "sendgrid", "console":
	default:
		return nil, fmt.Errorf("unsupported MAIL_PROVIDER %q", s.MailProvider)
	}
	return s, nil
}

// IsAdminEmail reports whether email is in ADMIN_EMAILS, ignoring case.
func (s *Settings) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range s.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func parseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG, nil
	case "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isSet(key string) bool {
	return strings.TrimSpace(os.Getenv(key)) != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
