package history

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/adhistory/internal/ad"
	"github.com/roach88/adhistory/internal/database"
	"github.com/roach88/adhistory/internal/diag"
	"github.com/roach88/adhistory/internal/testutil"
)

var errExecutorDown = errors.New("executor down")

// recordingExecutor captures transactions instead of running them.
type recordingExecutor struct {
	mu  sync.Mutex
	txs []*database.Transaction
	err error
}

func (r *recordingExecutor) Execute(_ context.Context, tx *database.Transaction) (*database.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, tx)
	if r.err != nil {
		return nil, r.err
	}
	return &database.Result{Rows: []database.Row{}}, nil
}

func (r *recordingExecutor) transactions() []*database.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*database.Transaction(nil), r.txs...)
}

// testStore bundles a store on a temp database with its collaborators.
type testStore struct {
	*Store
	engine   *database.Engine
	clock    *testutil.FakeClock
	recorder *diag.Recorder
}

func createTestStore(t *testing.T, opts ...Option) *testStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ads.db")
	engine, err := database.Open(path, database.WithTables(Schema{}))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	clock := testutil.NewFakeClock(testutil.Epoch)
	recorder := &diag.Recorder{}
	opts = append([]Option{WithClock(clock), WithReporter(recorder)}, opts...)

	return &testStore{
		Store:    NewStore(engine, opts...),
		engine:   engine,
		clock:    clock,
		recorder: recorder,
	}
}

// all returns every stored event, most recent first.
func (s *testStore) all(t *testing.T) []ad.Event {
	t.Helper()
	events, err := s.GetForDateRange(context.Background(), time.Unix(0, 0), testutil.Epoch.Add(10*365*24*time.Hour))
	require.NoError(t, err)
	return events
}

func (s *testStore) save(t *testing.T, events ...ad.Event) {
	t.Helper()
	require.NoError(t, s.Save(context.Background(), events))
}

func placementIDs(events []ad.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.PlacementID)
	}
	return ids
}
