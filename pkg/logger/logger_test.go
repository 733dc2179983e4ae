package logger

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger_FallsBackToGlobal(t *testing.T) {
	entry := GetLogger(context.Background())
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLogger_RoundTrip(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("wizard_session", "abc")
	ctx := WithLogger(context.Background(), custom)

	entry := GetLogger(ctx)
	assert.Equal(t, "abc", entry.Data["wizard_session"])
}

func TestSetLogLevel(t *testing.T) {
	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	require.NoError(t, SetLogLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("not-a-level"))
}
