package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(time.Second)

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"db", "redis", "http"} {
		name := name
		c.Add(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "redis", "db"}, order)
}

func TestCloseCollectsErrors(t *testing.T) {
	c := NewCloser(time.Second)
	c.Add("bolt", func(context.Context) error { return errors.New("file locked") })
	c.Add("http", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bolt: file locked")

	// повторный вызов ничего не делает
	assert.NoError(t, c.Close(context.Background()))
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(100 * time.Millisecond)

	forced := make(chan struct{}, 1)
	c.Add("first", func(context.Context) error {
		forced <- struct{}{}
		return nil
	})
	c.Add("stuck", func(context.Context) error {
		time.Sleep(time.Second)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted")

	select {
	case <-forced:
	case <-time.After(time.Second):
		t.Fatal("remaining resource was not closed")
	}
}
