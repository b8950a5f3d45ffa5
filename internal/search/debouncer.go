package search

import (
	"sync"
	"time"
)

// DefaultDelay — пауза ввода, после которой уходит запрос поиска.
const DefaultDelay = 350 * time.Millisecond

// Debouncer откладывает вызов fn до паузы delay и передаёт только последнее значение.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	latest  T
	seq     uint64
	pending bool
	stopped bool
}

func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Push запоминает значение и перезапускает таймер.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.latest = v
	d.pending = true
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Flush немедленно отдаёт отложенное значение, если оно есть.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	seq := d.seq
	d.mu.Unlock()

	d.fire(seq)
}

// Stop отменяет отложенный вызов; последующие Push игнорируются.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Pending сообщает, ждёт ли значение отправки.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// таймер мог сработать уже после нового Push
	if seq != d.seq || !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.latest
	d.pending = false
	d.mu.Unlock()

	d.fn(v)
}
