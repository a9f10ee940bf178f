package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minedash-admin/pkg/config"
)

func TestAuthStatus(t *testing.T) {
	// A token file authenticates per request even before any token is read.
	cfg := &config.Config{TokenFile: "/run/secrets/admin-token"}
	assert.Contains(t, authStatus(cfg), "✅")
	assert.Contains(t, authStatus(cfg), "/run/secrets/admin-token")

	cfg = &config.Config{AdminToken: "tok"}
	assert.Contains(t, authStatus(cfg), "✅")

	cfg = &config.Config{}
	assert.Contains(t, authStatus(cfg), "❌")
}
