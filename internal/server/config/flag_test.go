package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-r", "sqlite", "-d", "auth.db", "-s", "secret",
			"-g", "HS512", "-t", "5", "-l", "debug", "-m=false",
		}, expected: &Config{
			EndpointAddrHTTP:            "127.0.0.1:9090",
			DatabaseDriver:              "sqlite",
			DatabaseDSN:                 "auth.db",
			SecretKey:                   "secret",
			SigningAlgorithm:            "HS512",
			AccessTokenValidityDuration: 5 * time.Minute,
			LogLevel:                    "debug",
			MetricsEnabled:              false,
		}},
		{name: "foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-env", "x.env", "-s", "k"},
			expected: &Config{
				SecretKey:                   "k",
				AccessTokenValidityDuration: 90 * time.Second,
				MetricsEnabled:              true,
			}},
		{name: "bad minutes", args: []string{"cmd", "-t", "soon"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{AccessTokenValidityDuration: 90 * time.Second, MetricsEnabled: true}

			err := parseFlags(config)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
