package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays environment variables onto config. Unset variables
// leave the current value alone; malformed numbers are reported together.
func parseEnv(config *Config) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	str("SERVER_ADDRESS", &config.EndpointAddrHTTP)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	str("ALGORITHM", &config.SigningAlgorithm)

	if _, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		var minutes int
		integer("ACCESS_TOKEN_EXPIRE_MINUTES", &minutes)
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}

	integer("ITEMS_PER_PAGE", &config.ItemsPerPage)
	integer("LIST_PAGE_SIZE", &config.ListPageSize)
	integer("MAX_PAGE_SIZE", &config.MaxPageSize)
	integer("BCRYPT_COST", &config.BcryptCost)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FORMAT", &config.LogFormat)

	str("BLOB_BACKEND", &config.BlobBackend)
	str("UPLOAD_DIR", &config.UploadDir)
	str("STATIC_BASE_URL", &config.StaticBaseURL)
	if v, ok := os.LookupEnv("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err))
		} else {
			config.MaxUploadBytes = n
		}
	}

	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_PUBLIC_URL", &config.S3PublicURL)
	boolean("S3_USE_PATH_STYLE", &config.S3UsePathStyle)

	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.CORSOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("LOGIN_RATE_PER_SECOND"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOGIN_RATE_PER_SECOND: %w", err))
		} else {
			config.LoginRatePerSecond = f
		}
	}
	integer("LOGIN_BURST", &config.LoginBurst)
	boolean("TRUST_PROXY_HEADERS", &config.TrustProxyHeaders)

	return errors.Join(errs...)
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
