package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "ttscore.db", cfg.DBPath)
	assert.Equal(t, "http://junosolutions.be/ttscore.php", cfg.TabTBaseURL)
	assert.Equal(t, 10*time.Second, cfg.TabTTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TTSCORE_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("TTSCORE_TABT_BASE_URL", "https://tabt.example.org/api.php")

	cfg, err := Load(NewViper(), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, "https://tabt.example.org/api.php", cfg.TabTBaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "empty database path", key: "database.path", val: " "},
		{name: "relative base url", key: "tabt.base_url", val: "ttscore.php"},
		{name: "empty settings path", key: "settings.path", val: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViper()
			v.Set(tt.key, tt.val)

			_, err := Load(v, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}
