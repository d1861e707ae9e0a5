package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Format: "json", Output: "stdout"})
	require.Error(t, err)
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(&Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("series refreshed",
		String("series", "DGS10"),
		Float64("value", 4.25),
		Int("points", 400),
	)
	log.Warn("keeping previous value", String("series", "VIXCLS"))
	log.Error("fetch failed", Error(errors.New("upstream unavailable")))
	log.Debug("tick", Duration("elapsed", 150*time.Millisecond), Bool("cached", true))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `"message":"series refreshed"`)
	assert.Contains(t, out, `"series":"DGS10"`)
	assert.Contains(t, out, `"value":4.25`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"error":"upstream unavailable"`)
	assert.Contains(t, out, `"elapsed":150`)
}

func TestFieldKeyValues(t *testing.T) {
	k, v := String("ticker", "OANDA:XAU_USD").GetKeyValue()
	assert.Equal(t, "ticker", k)
	assert.Equal(t, "OANDA:XAU_USD", v)

	k, v = Error(errors.New("boom")).GetKeyValue()
	assert.Equal(t, "error", k)
	assert.Equal(t, "boom", v)

	k, v = Strings("tags", []string{"macro", "rates"}).GetKeyValue()
	assert.Equal(t, "tags", k)
	assert.Equal(t, "macro, rates", v)
}
