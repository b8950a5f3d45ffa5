// Package confirm — поток «отправить, подтвердить, выполнить» для диалогов подтверждения.
package confirm

import (
	"context"
	"sync"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	AwaitingConfirmation
	Committing
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Committing:
		return "committing"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CommitFunc выполняет подтверждённое действие.
type CommitFunc[P, R any] func(ctx context.Context, payload P) (R, error)

// Snapshot — текущее состояние потока для отображения диалога.
type Snapshot[P any] struct {
	State   State
	ID      string
	Payload *P
}

type outcome[R any] struct {
	res R
	err error
}

type pending[P, R any] struct {
	id      string
	payload P
	done    chan outcome[R]
	settled bool
}

type Options struct {
	// OnTransition вызывается под блокировкой потока и не должен обращаться к нему.
	OnTransition func(from, to State)
}

// Flow держит не больше одной ожидающей отправки. Каждая захваченная отправка завершается ровно один раз.
type Flow[P, R any] struct {
	mu      sync.Mutex
	name    string
	state   State
	pending *pending[P, R]
	commit  CommitFunc[P, R]
	opts    Options
	logger  logger.Logger
}

func NewFlow[P, R any](name string, commit CommitFunc[P, R], opts Options, log logger.Logger) *Flow[P, R] {
	return &Flow[P, R]{
		name:   name,
		commit: commit,
		opts:   opts,
		logger: log,
	}
}

func (f *Flow[P, R]) Name() string {
	return f.name
}

// Submit захватывает payload и ждёт решения пользователя.
// Если поток занят, сразу возвращает e.ErrFlowBusy, payload не захватывается.
// Завершение ctx до подтверждения отменяет отправку.
func (f *Flow[P, R]) Submit(ctx context.Context, payload P) (R, error) {
	var zero R

	f.mu.Lock()
	if f.state != Idle {
		f.mu.Unlock()
		return zero, e.ErrFlowBusy
	}
	pd := &pending[P, R]{
		id:      uuid.NewString(),
		payload: payload,
		done:    make(chan outcome[R], 1),
	}
	f.pending = pd
	f.transitionLocked(AwaitingConfirmation)
	f.mu.Unlock()

	f.logger.Debugf("%s: awaiting confirmation %s", f.name, pd.id)

	select {
	case o := <-pd.done:
		return o.res, o.err
	case <-ctx.Done():
		f.cancelIf(pd.id, "submitter went away")
		// если подтверждение уже началось, дожидаемся его результата
		o := <-pd.done
		return o.res, o.err
	}
}

// Confirm выполняет захваченное действие и возвращает его результат.
// Действие идёт на контексте без отмены: уход подтверждающего не прерывает запрос.
func (f *Flow[P, R]) Confirm(ctx context.Context) (R, error) {
	var zero R

	f.mu.Lock()
	switch f.state {
	case AwaitingConfirmation:
	case Committing:
		f.mu.Unlock()
		return zero, e.ErrFlowBusy
	default:
		f.mu.Unlock()
		return zero, e.ErrNothingPending
	}
	pd := f.pending
	f.transitionLocked(Committing)
	f.mu.Unlock()

	res, err := f.commit(context.WithoutCancel(ctx), pd.payload)

	f.mu.Lock()
	f.settleLocked(pd, res, err)
	f.pending = nil
	f.transitionLocked(Idle)
	f.mu.Unlock()

	if err != nil {
		f.logger.Warnf("%s: commit %s failed: %v", f.name, pd.id, err)
	}
	return res, err
}

// Cancel отклоняет ожидающую отправку с e.CancellationError. Во время выполнения ничего не делает.
func (f *Flow[P, R]) Cancel(reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case AwaitingConfirmation:
		f.cancelLocked(reason)
		return nil
	case Committing:
		return e.ErrFlowBusy
	default:
		return e.ErrNothingPending
	}
}

// Dismiss — закрытие диалога без выбора; то же, что отмена.
func (f *Flow[P, R]) Dismiss() error {
	return f.Cancel("dismissed")
}

func (f *Flow[P, R]) Snapshot() Snapshot[P] {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot[P]{State: f.state}
	if f.pending != nil {
		p := f.pending.payload
		s.ID = f.pending.id
		s.Payload = &p
	}
	return s
}

func (f *Flow[P, R]) cancelIf(id, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == AwaitingConfirmation && f.pending != nil && f.pending.id == id {
		f.cancelLocked(reason)
	}
}

func (f *Flow[P, R]) cancelLocked(reason string) {
	var zero R
	pd := f.pending
	f.transitionLocked(Cancelled)
	f.settleLocked(pd, zero, e.NewCancellationError(reason))
	f.pending = nil
	f.transitionLocked(Idle)
	f.logger.Debugf("%s: %s cancelled: %s", f.name, pd.id, reason)
}

func (f *Flow[P, R]) settleLocked(pd *pending[P, R], res R, err error) {
	if pd == nil || pd.settled {
		return
	}
	pd.settled = true
	pd.done <- outcome[R]{res: res, err: err}
}

func (f *Flow[P, R]) transitionLocked(to State) {
	from := f.state
	f.state = to
	if f.opts.OnTransition != nil {
		f.opts.OnTransition(from, to)
	}
}
