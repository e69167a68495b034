package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/windbreaker/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-r string   database driver (pgx | sqlite)
//	-d string   database DSN
//	-s string   token signing secret
//	-g string   signing algorithm (HS256 | HS384 | HS512)
//	-t int      access token validity, minutes
//	-l string   log level
//	-m bool     serve /metrics
//
// os.Args is filtered with flagx.FilterArgs first so that flags belonging to
// other components (-c, -env) do not break parsing.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-d", "-s", "-g", "-t", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningAlgorithm, "g", config.SigningAlgorithm, "signing algorithm")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.MetricsEnabled, "m", config.MetricsEnabled, "serve prometheus metrics")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only override the lifetime when -t was given, so sub-minute values from
	// JSON survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
	return nil
}
