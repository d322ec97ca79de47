package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatorRollsOver(t *testing.T) {
	name := filepath.Join(t.TempDir(), "service.log")
	r := &Rotator{Filename: name, MaxSize: 10, MaxBackups: 2}
	defer r.Close()

	_, err := r.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = r.Write([]byte("abc"))
	require.NoError(t, err)

	current, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(current))

	backup, err := os.ReadFile(name + ".1")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(backup))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, log.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, log.LevelInfo, ParseLevel(""))
}
