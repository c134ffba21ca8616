package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/campgroundfyi/airsync/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AIRTABLE_API_KEY", "key-test")
	t.Setenv("AIRTABLE_BASE_ID", "appBase123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key-test", cfg.APIKey)
	assert.Equal(t, "appBase123", cfg.BaseID)
	assert.Equal(t, "All Providers", cfg.Table)
	assert.Equal(t, "Events", cfg.EventsTable)
	assert.Equal(t, "Event Name", cfg.EventLabelField)
	assert.Equal(t, 10, cfg.ChunkSize)
	assert.Equal(t, []string{"Events"}, cfg.LinkedFields)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AIRTABLE_API_KEY", "key-test")
	t.Setenv("AIRTABLE_BASE_ID", "appBase123")
	t.Setenv("AIRTABLE_TABLE_NAME", "Members")
	t.Setenv("AIRTABLE_LINKED_FIELDS", "Events, Sponsorships")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Members", cfg.Table)
	assert.Equal(t, []string{"Events", "Sponsorships"}, cfg.LinkedFields)
}

func TestValidate(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		cfg := &Config{BaseID: "appBase123"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrAPIKeyRequired)
	})

	t.Run("missing base id", func(t *testing.T) {
		cfg := &Config{APIKey: "key-test"}
		err := cfg.Validate()
		require.Error(t, err)
		var cfgErr *pkgerrors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("valid", func(t *testing.T) {
		cfg := &Config{APIKey: "key-test", BaseID: "appBase123"}
		assert.NoError(t, cfg.Validate())
	})
}
