package confirm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitResult struct {
	res string
	err error
}

func submitAsync(f *Flow[int, string], ctx context.Context, p int) <-chan submitResult {
	ch := make(chan submitResult, 1)
	go func() {
		res, err := f.Submit(ctx, p)
		ch <- submitResult{res, err}
	}()
	return ch
}

func waitState(t *testing.T, f *Flow[int, string], want State) {
	t.Helper()
	require.Eventually(t, func() bool { return f.Snapshot().State == want }, time.Second, time.Millisecond)
}

func TestConfirmCommitsPayload(t *testing.T) {
	var commits atomic.Int32
	f := NewFlow("edit", func(_ context.Context, p int) (string, error) {
		commits.Add(1)
		return "saved", nil
	}, Options{}, logger.Nop{})

	res := submitAsync(f, context.Background(), 20)
	waitState(t, f, AwaitingConfirmation)

	snap := f.Snapshot()
	require.NotNil(t, snap.Payload)
	assert.Equal(t, 20, *snap.Payload)
	assert.NotEmpty(t, snap.ID)

	got, err := f.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "saved", got)

	r := <-res
	require.NoError(t, r.err)
	assert.Equal(t, "saved", r.res)
	assert.Equal(t, int32(1), commits.Load())
	assert.Equal(t, Idle, f.Snapshot().State)
}

func TestCancelRejectsWithoutCommit(t *testing.T) {
	var (
		mu          sync.Mutex
		transitions []State
	)
	f := NewFlow("edit", func(context.Context, int) (string, error) {
		t.Fatal("commit must not run")
		return "", nil
	}, Options{OnTransition: func(_, to State) {
		mu.Lock()
		transitions = append(transitions, to)
		mu.Unlock()
	}}, logger.Nop{})

	res := submitAsync(f, context.Background(), 20)
	waitState(t, f, AwaitingConfirmation)

	require.NoError(t, f.Cancel("user cancelled"))

	r := <-res
	require.Error(t, r.err)
	assert.True(t, e.IsCancellation(r.err))
	assert.True(t, errors.Is(r.err, e.ErrCancelledByUser))

	mu.Lock()
	assert.Equal(t, []State{AwaitingConfirmation, Cancelled, Idle}, transitions)
	mu.Unlock()

	assert.ErrorIs(t, f.Cancel("again"), e.ErrNothingPending)
}

func TestSecondSubmitIsRejectedWhileAwaiting(t *testing.T) {
	var committed atomic.Int32
	f := NewFlow("edit", func(_ context.Context, p int) (string, error) {
		committed.Store(int32(p))
		return "ok", nil
	}, Options{}, logger.Nop{})

	first := submitAsync(f, context.Background(), 1)
	waitState(t, f, AwaitingConfirmation)

	_, err := f.Submit(context.Background(), 2)
	assert.ErrorIs(t, err, e.ErrFlowBusy)

	_, err = f.Confirm(context.Background())
	require.NoError(t, err)
	require.NoError(t, (<-first).err)
	assert.Equal(t, int32(1), committed.Load(), "only the first payload is committed")
}

func TestCommitErrorRejectsAndResets(t *testing.T) {
	boom := errors.New("500")
	f := NewFlow("delete", func(context.Context, int) (string, error) {
		return "", boom
	}, Options{}, logger.Nop{})

	res := submitAsync(f, context.Background(), 1)
	waitState(t, f, AwaitingConfirmation)

	_, err := f.Confirm(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, (<-res).err, boom)
	assert.Equal(t, Idle, f.Snapshot().State)
	assert.Nil(t, f.Snapshot().Payload)
}

func TestBusyWhileCommitting(t *testing.T) {
	release := make(chan struct{})
	f := NewFlow("edit", func(context.Context, int) (string, error) {
		<-release
		return "ok", nil
	}, Options{}, logger.Nop{})

	res := submitAsync(f, context.Background(), 1)
	waitState(t, f, AwaitingConfirmation)

	confirmed := make(chan error, 1)
	go func() {
		_, err := f.Confirm(context.Background())
		confirmed <- err
	}()
	waitState(t, f, Committing)

	_, err := f.Submit(context.Background(), 2)
	assert.ErrorIs(t, err, e.ErrFlowBusy)
	_, err = f.Confirm(context.Background())
	assert.ErrorIs(t, err, e.ErrFlowBusy)
	assert.ErrorIs(t, f.Cancel("late"), e.ErrFlowBusy)

	close(release)
	require.NoError(t, <-confirmed)
	r := <-res
	require.NoError(t, r.err)
	assert.Equal(t, "ok", r.res)
}

func TestSubmitterContextCancelsPending(t *testing.T) {
	f := NewFlow("edit", func(context.Context, int) (string, error) {
		t.Fatal("commit must not run")
		return "", nil
	}, Options{}, logger.Nop{})

	ctx, cancel := context.WithCancel(context.Background())
	res := submitAsync(f, ctx, 1)
	waitState(t, f, AwaitingConfirmation)

	cancel()
	r := <-res
	assert.True(t, e.IsCancellation(r.err))
	assert.Equal(t, Idle, f.Snapshot().State)

	_, err := f.Confirm(context.Background())
	assert.ErrorIs(t, err, e.ErrNothingPending)
}

func TestDismissIsCancellation(t *testing.T) {
	f := NewFlow("delete", func(context.Context, int) (string, error) { return "", nil }, Options{}, logger.Nop{})

	res := submitAsync(f, context.Background(), 1)
	waitState(t, f, AwaitingConfirmation)
	require.NoError(t, f.Dismiss())

	assert.True(t, e.IsCancellation((<-res).err))
}
