package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_EmitsLatestOnce(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(100*time.Millisecond, rec.add)
	defer d.Stop()

	// нажатия на 0, 15, 30 и 85 мс при паузе 100 мс
	d.Push("a")
	time.Sleep(15 * time.Millisecond)
	d.Push("ab")
	time.Sleep(15 * time.Millisecond)
	d.Push("abc")
	time.Sleep(55 * time.Millisecond)
	d.Push("abcd")

	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, []string{"abcd"}, rec.get())
	assert.False(t, d.Pending())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.add)
	defer d.Stop()

	d.Push("first")
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)

	d.Push("second")
	require.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.get())
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(time.Hour, rec.add)

	d.Push("now")
	assert.True(t, d.Pending())
	d.Flush()
	assert.Equal(t, []string{"now"}, rec.get())

	// повторный Flush без нового значения ничего не отдаёт
	d.Flush()
	assert.Len(t, rec.get(), 1)

	d.Push("dropped")
	d.Stop()
	d.Push("ignored")
	d.Flush()
	assert.Equal(t, []string{"now"}, rec.get())
}
