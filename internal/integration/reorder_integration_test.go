package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pausingStore holds every write transaction open after its work is done
// until release is closed.
type pausingStore struct {
	*repository.PgStore
	reached chan struct{}
	release chan struct{}
}

func (s *pausingStore) InTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return s.PgStore.InTx(ctx, func(q repository.Querier) error {
		if err := fn(q); err != nil {
			return err
		}
		close(s.reached)
		<-s.release
		return nil
	})
}

func orderOf(t *testing.T, statuses []domain.TaskStatus, id int64) int {
	t.Helper()
	for _, st := range statuses {
		if st.ID == id {
			return st.Order
		}
	}
	t.Fatalf("status %d not listed", id)
	return 0
}

func newStatus(t *testing.T, store *repository.PgStore) *domain.TaskStatus {
	t.Helper()
	st := &domain.TaskStatus{Name: "reorder-" + uuid.NewString()[:8], Color: "#000000"}
	require.NoError(t, store.CreateStatus(context.Background(), st))
	t.Cleanup(func() { _ = store.DeleteStatus(context.Background(), st.ID) })
	return st
}

func TestStatusReorder_ConcurrentReaderSeesAllOrNothing(t *testing.T) {
	pool := openDB(t)
	pg := repository.NewStore(pool)
	ctx := context.Background()

	a := newStatus(t, pg)
	b := newStatus(t, pg)

	store := &pausingStore{PgStore: pg, reached: make(chan struct{}), release: make(chan struct{})}
	statuses := service.NewStatusService(store, service.NopBroadcaster{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := statuses.Reorder(ctx, service.ReorderInput{Orders: []domain.StatusOrder{
			{ID: a.ID, Order: b.Order},
			{ID: b.ID, Order: a.Order},
		}})
		done <- err
	}()

	select {
	case <-store.reached:
	case err := <-done:
		t.Fatalf("reorder finished before pausing: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("reorder never reached its transaction")
	}

	// both rows are written but not committed; another connection sees neither
	listed, err := pg.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.Order, orderOf(t, listed, a.ID))
	assert.Equal(t, b.Order, orderOf(t, listed, b.ID))

	close(store.release)
	require.NoError(t, <-done)

	listed, err = pg.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.Order, orderOf(t, listed, a.ID))
	assert.Equal(t, a.Order, orderOf(t, listed, b.ID))
}

func TestStatusReorder_UnknownIDLeavesOrderUntouched(t *testing.T) {
	pool := openDB(t)
	pg := repository.NewStore(pool)
	ctx := context.Background()

	a := newStatus(t, pg)
	statuses := service.NewStatusService(pg, service.NopBroadcaster{}, nil)

	_, err := statuses.Reorder(ctx, service.ReorderInput{Orders: []domain.StatusOrder{
		{ID: a.ID, Order: a.Order + 50},
		{ID: 1 << 40, Order: 0},
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "%v", err)

	listed, err := pg.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.Order, orderOf(t, listed, a.ID))
}
