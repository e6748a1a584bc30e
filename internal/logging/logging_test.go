package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "json")
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Debug().Str("board", "b1").Msg("mounted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "b1", entry["board"])
	assert.Equal(t, "mounted", entry["message"])
}

func TestSetupBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, "loud", "json")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}
