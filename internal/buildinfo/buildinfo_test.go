package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetters(t *testing.T) {
	Set("1.2.3", "abc123", "2025-01-01", "ci")

	assert.Equal(t, "1.2.3", Version())
	assert.Equal(t, "abc123", Commit())
	assert.Equal(t, "2025-01-01", Date())
	assert.Equal(t, "ci", BuiltBy())
}

func TestEnrichFillsBuilder(t *testing.T) {
	Set("dev", "none", "unknown", "unknown")
	Enrich()

	assert.NotEqual(t, "unknown", BuiltBy(), "expected builtBy to be enriched with Go version")
}

func TestEnrichPreservesExplicitValues(t *testing.T) {
	Set("v1.0.0", "deadbeef", "2025-06-01", "goreleaser")
	Enrich()

	assert.Equal(t, "v1.0.0", Version())
	assert.Equal(t, "deadbeef", Commit())
	assert.Equal(t, "2025-06-01", Date())
	assert.Equal(t, "goreleaser", BuiltBy())
}

func TestString(t *testing.T) {
	Set("v0.3.0", "0123456789abcdef0123", "2026-01-02", "goreleaser")

	assert.Equal(t, "v0.3.0 (commit 0123456789ab, built 2026-01-02 by goreleaser)", String())
}
