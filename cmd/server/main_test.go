package main

import (
	"context"
	"testing"

	"fulvo/backend/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunFailsOnInvalidDatabaseURL(t *testing.T) {
	cfg := &config.Config{
		Port:        "0",
		DatabaseURL: "postgres://%zz",
		JWTSecret:   "secret",
	}
	err := run(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
