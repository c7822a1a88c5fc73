package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/adhistory/internal/testutil"
)

const day = 24 * time.Hour

func TestPurgeExpired(t *testing.T) {
	s := createTestStore(t)
	now := testutil.Epoch.Add(100 * day)
	s.clock.Set(now)

	s.save(t,
		testutil.NewEvent("expired", testutil.At(now.Add(-DefaultRetentionPeriod-time.Second))),
		testutil.NewEvent("boundary", testutil.At(now.Add(-DefaultRetentionPeriod))),
		testutil.NewEvent("kept", testutil.At(now.Add(-DefaultRetentionPeriod+time.Second))),
		testutil.NewEvent("recent", testutil.At(now)),
	)

	require.NoError(t, s.PurgeExpired(context.Background()))
	assert.Equal(t, []string{"recent", "kept"}, placementIDs(s.all(t)))

	require.NoError(t, s.PurgeExpired(context.Background()), "purging again is a no-op")
	assert.Equal(t, []string{"recent", "kept"}, placementIDs(s.all(t)))
}

func TestPurgeExpired_FollowsClock(t *testing.T) {
	s := createTestStore(t, WithRetentionPeriod(7*day))
	s.save(t, testutil.NewEvent("p1", testutil.At(testutil.Epoch)))

	require.NoError(t, s.PurgeExpired(context.Background()))
	assert.Len(t, s.all(t), 1)

	s.clock.Advance(7 * day)
	require.NoError(t, s.PurgeExpired(context.Background()))
	assert.Empty(t, s.all(t))
}

func TestPurgeExpired_EmptyTable(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.PurgeExpired(context.Background()))
}

func TestPurgeExpired_ExecutorFailure(t *testing.T) {
	s := NewStore(&recordingExecutor{err: errExecutorDown})

	err := s.PurgeExpired(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errExecutorDown))
}
