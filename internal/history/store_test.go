package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(&recordingExecutor{})

	assert.Equal(t, DefaultBatchSize, s.BatchSize())
	assert.Equal(t, 30*24*time.Hour, s.RetentionPeriod())
}

func TestWithBatchSize_IgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, NewStore(&recordingExecutor{}, WithBatchSize(0)).BatchSize())
	assert.Equal(t, DefaultBatchSize, NewStore(&recordingExecutor{}, WithBatchSize(-3)).BatchSize())
	assert.Equal(t, 10, NewStore(&recordingExecutor{}, WithBatchSize(10)).BatchSize())
}
