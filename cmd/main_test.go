package main

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestParseConfig_Defaults(t *testing.T) {
	os.Clearenv()

	appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		logLevel,
		err := parseConfig("does-not-exist.env")

	assert.NoError(t, err)
	assert.Equal(t, "localhost", appHost)
	assert.Equal(t, "8080", appPort)
	assert.Equal(t, "localhost", pgHost)
	assert.Equal(t, 5432, pgPort)
	assert.Equal(t, "user", pgUser)
	assert.Equal(t, "password", pgPassword)
	assert.Equal(t, "database", pgDB)
	assert.Equal(t, 16, pgMaxOpenConns)
	assert.Equal(t, 8, pgMaxIdleConns)
	assert.Equal(t, "info", logLevel)
}

func TestParseConfig_EnvOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_PORT", "9090")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("APP_LOG_LEVEL", "debug")
	defer os.Clearenv()

	_, appPort, _, pgPort, _, _, _, _, _, logLevel, err := parseConfig("does-not-exist.env")

	assert.NoError(t, err)
	assert.Equal(t, "9090", appPort)
	assert.Equal(t, 5433, pgPort)
	assert.Equal(t, "debug", logLevel)
}

func TestParseConfig_BadPort(t *testing.T) {
	os.Clearenv()
	os.Setenv("POSTGRES_PORT", "not-a-number")
	defer os.Clearenv()

	_, _, _, _, _, _, _, _, _, _, err := parseConfig("does-not-exist.env")
	assert.Error(t, err)
}
