package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Named("timer").Debug("armed", zap.Uint32("interval_ms", 10))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "timer", entry.LoggerName)
	assert.Equal(t, "armed", entry.Message)
}

func TestNilRestoresNop(t *testing.T) {
	SetLogger(nil)
	assert.NotNil(t, Logger())
}
