package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/on-the-ground/effect_algebra_go/effects"
	"github.com/on-the-ground/effect_algebra_go/effects/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestZapHandler_MapsLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := log.NewZapHandler(zap.New(core))

	for _, p := range []log.Payload{
		{Level: log.LevelDebug, Message: "d"},
		{Level: log.LevelInfo, Message: "i"},
		{Level: log.LevelWarn, Message: "w"},
		{Level: log.LevelError, Message: "e"},
		{Level: "bogus", Message: "fallback"},
	} {
		_, err := h.Handle(p)
		require.NoError(t, err)
	}

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
	assert.Equal(t, zap.InfoLevel, entries[4].Level, "unknown levels fall back to Info")
}

func TestZapHandler_CarriesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := log.NewZapHandler(zap.New(core))

	_, err := h.Handle(log.Payload{
		Level:   log.LevelInfo,
		Message: "with fields",
		Fields:  map[string]interface{}{"taskId": "a"},
	})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ContextMap()["taskId"])
}

func TestRecordingHandler_AppendsPayloads(t *testing.T) {
	var sink []log.Payload
	h := log.NewRecordingHandler(&sink)

	_, err := h.Handle(log.Payload{Level: log.LevelInfo, Message: "one"})
	require.NoError(t, err)
	_, err = h.Handle(log.Payload{Level: log.LevelWarn, Message: "two"})
	require.NoError(t, err)

	require.Len(t, sink, 2)
	assert.Equal(t, "one", sink[0].Message)
	assert.Equal(t, "two", sink[1].Message)
}

func TestDecliningHandler_Declines(t *testing.T) {
	h := log.NewDecliningHandler()
	_, err := h.Handle(log.Payload{Message: "x"})
	assert.ErrorIs(t, err, effects.ErrDecline)
}

func TestLogEffect_FullyHandledComputation(t *testing.T) {
	var sink []log.Payload

	c := effects.New(func(mb *effects.Mailbox[log.Done], yield func(log.Payload)) int {
		yield(log.Payload{Level: log.LevelInfo, Message: "step 1"})
		yield(log.Payload{Level: log.LevelInfo, Message: "step 2"})
		return 2
	})
	pure := effects.WithSelectHandler(
		c,
		effects.SelectSelf[log.Payload, log.Done](),
		log.NewRecordingHandler(&sink),
	)

	out, err := effects.Run(pure)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
	require.Len(t, sink, 2)
	assert.Equal(t, "step 1", sink[0].Message)
}
