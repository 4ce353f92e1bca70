package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Catalog
	CatalogSource      string
	CatalogHTTPTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Engine
	Workers              int
	CreditLimitSummer    int
	CreditLimitRegular   int
	MaxPropagationPasses int

	// Outputs
	MetricsTextfile string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

func Load() Config {
	return Config{
		CatalogSource:      os.Getenv("CATALOG_SOURCE"),
		CatalogHTTPTimeout: time.Duration(getenvInt("CATALOG_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "console"),

		Workers:              getenvInt("WORKERS", 8),
		CreditLimitSummer:    getenvInt("CREDIT_LIMIT_SUMMER", 9),
		CreditLimitRegular:   getenvInt("CREDIT_LIMIT_REGULAR", 22),
		MaxPropagationPasses: getenvInt("MAX_PROPAGATION_PASSES", 10),

		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}
}

// SFTPEnabled reports whether enough is configured to attempt an upload.
func (c Config) SFTPEnabled() bool {
	return c.SFTPHost != "" && c.SFTPUser != ""
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v, err := strconv.ParseBool(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}
