package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/windbreaker/internal/flagx"
	"github.com/dmitrijs2005/windbreaker/internal/server/repositories/repomanager"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file (the -env flag, else ./.env; a missing file is
// fine) and then reads the process environment. Variables already set in the
// environment win over the file.
//
// Recognised variables:
//
//	ADDRESS                      HTTP bind address
//	DATABASE_DRIVER              pgx | sqlite
//	DATABASE_DSN                 DSN for the driver
//	DB_PATH                      SQLite file; implies DATABASE_DRIVER=sqlite
//	SECRET_KEY                   token signing secret
//	ALGORITHM                    HS256 | HS384 | HS512
//	ACCESS_TOKEN_EXPIRE_MINUTES  token lifetime in minutes
//	LOG_LEVEL                    debug | info | warn | error
//	METRICS_ENABLED              true | false
func parseEnv(config *Config) error {
	envFile := flagx.EnvFileFlags()
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DRIVER"); ok {
		config.DatabaseDriver = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("DB_PATH"); ok {
		config.DatabaseDriver = repomanager.DriverSQLite
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("ALGORITHM"); ok {
		config.SigningAlgorithm = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv("METRICS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		config.MetricsEnabled = enabled
	}

	return nil
}
