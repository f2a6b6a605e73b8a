package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-s", "-t", "-l", "-blob", "-u", "-bucket", "-e", "-r"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string       HTTP bind address (e.g., ":8000")
//	-d string       PostgreSQL DSN
//	-s string       JWT signing secret
//	-t int          access token validity, minutes
//	-l string       log level (debug, info, warn, error)
//	-blob string    blob backend: local or s3
//	-u string       upload directory for the local backend
//	-bucket string  S3 bucket
//	-e string       S3 base endpoint
//	-r string       S3 region
//
// Arguments are first filtered with flagx.FilterArgs so that flags owned
// by other components (such as -c) do not fail parsing.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.BlobBackend, "blob", config.BlobBackend, "blob backend (local or s3)")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.S3Bucket, "bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*tokenMinutes) * time.Minute
		}
	})
	return nil
}
