package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
	"github.com/dmitrijs2005/blogkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Durations accept "30m" style
// strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	SigningAlgorithm            string         `json:"algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ItemsPerPage                int            `json:"items_per_page"`
	ListPageSize                int            `json:"list_page_size"`
	MaxPageSize                 int            `json:"max_page_size"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
	BlobBackend                 string         `json:"blob_backend"`
	UploadDir                   string         `json:"upload_dir"`
	StaticBaseURL               string         `json:"static_base_url"`
	MaxUploadBytes              int64          `json:"max_upload_bytes"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
	S3PublicURL                 string         `json:"s3_public_url"`
	S3UsePathStyle              bool           `json:"s3_use_path_style"`
	CORSOrigins                 []string       `json:"cors_origins"`
	LoginRatePerSecond          float64        `json:"login_rate_per_second"`
	LoginBurst                  int            `json:"login_burst"`
	TrustProxyHeaders           bool           `json:"trust_proxy_headers"`
}

// parseJSON overlays the file named by -c/-config onto config. Keys absent
// from the file keep their current values.
func parseJSON(config *Config) error {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := toJSON(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	fromJSON(c, config)
	return nil
}

func toJSON(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:            c.EndpointAddrHTTP,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		SigningAlgorithm:            c.SigningAlgorithm,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		ItemsPerPage:                c.ItemsPerPage,
		ListPageSize:                c.ListPageSize,
		MaxPageSize:                 c.MaxPageSize,
		BcryptCost:                  c.BcryptCost,
		LogLevel:                    c.LogLevel,
		LogFormat:                   c.LogFormat,
		BlobBackend:                 c.BlobBackend,
		UploadDir:                   c.UploadDir,
		StaticBaseURL:               c.StaticBaseURL,
		MaxUploadBytes:              c.MaxUploadBytes,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		S3AccessKey:                 c.S3AccessKey,
		S3SecretKey:                 c.S3SecretKey,
		S3PublicURL:                 c.S3PublicURL,
		S3UsePathStyle:              c.S3UsePathStyle,
		CORSOrigins:                 c.CORSOrigins,
		LoginRatePerSecond:          c.LoginRatePerSecond,
		LoginBurst:                  c.LoginBurst,
		TrustProxyHeaders:           c.TrustProxyHeaders,
	}
}

func fromJSON(j *JsonConfig, c *Config) {
	c.EndpointAddrHTTP = j.EndpointAddrHTTP
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.SigningAlgorithm = j.SigningAlgorithm
	c.AccessTokenValidityDuration = j.AccessTokenValidityDuration.Duration
	c.ItemsPerPage = j.ItemsPerPage
	c.ListPageSize = j.ListPageSize
	c.MaxPageSize = j.MaxPageSize
	c.BcryptCost = j.BcryptCost
	c.LogLevel = j.LogLevel
	c.LogFormat = j.LogFormat
	c.BlobBackend = j.BlobBackend
	c.UploadDir = j.UploadDir
	c.StaticBaseURL = j.StaticBaseURL
	c.MaxUploadBytes = j.MaxUploadBytes
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
	c.S3AccessKey = j.S3AccessKey
	c.S3SecretKey = j.S3SecretKey
	c.S3PublicURL = j.S3PublicURL
	c.S3UsePathStyle = j.S3UsePathStyle
	c.CORSOrigins = j.CORSOrigins
	c.LoginRatePerSecond = j.LoginRatePerSecond
	c.LoginBurst = j.LoginBurst
	c.TrustProxyHeaders = j.TrustProxyHeaders
}
