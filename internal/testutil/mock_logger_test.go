package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/internal/testutil"
)

var _ logging.Logger = (*testutil.MockLogger)(nil)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	assert.Equal(t, "value", messages[0].Field("key"))
	assert.Nil(t, messages[0].Field("missing"))

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareStore(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("trail").With(logging.String("run_id", "r1")).Named("analyzer")

	child.Warn("compound skipped", logging.String("record_id", "C"), logging.Int("record_index", 2))

	warns := logger.MessagesAt("warn")
	require.Len(t, warns, 1)
	assert.Equal(t, "trail.analyzer", warns[0].Logger)
	assert.Equal(t, "r1", warns[0].Field("run_id"))
	assert.Equal(t, "C", warns[0].Field("record_id"))
	assert.Equal(t, int64(2), warns[0].Field("record_index"))
}

//Personal.AI order the ending
