package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Func — функция освобождения ресурса.
type Func func(ctx context.Context) error

type namedFunc struct {
	name string
	fn   Func
}

// Closer освобождает зарегистрированные ресурсы в обратном порядке (LIFO).
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	funcs         []namedFunc
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout: сколько даётся оставшимся ресурсам,
// если контекст Close истёк раньше, чем все закрылись.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = 2 * time.Second
	}
	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс под именем, которое попадёт в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, namedFunc{name: name, fn: f})
}

// Close вызывается один раз; повторные вызовы возвращают nil.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := make([]namedFunc, len(c.funcs))
		copy(funcs, c.funcs)
		c.mu.Unlock()

		err = c.closeAll(ctx, funcs)
	})
	return err
}

func (c *Closer) closeAll(ctx context.Context, funcs []namedFunc) error {
	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		done := make(chan error, 1)
		go func(f namedFunc) { done <- f.fn(ctx) }(funcs[i])

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", funcs[i].name, err))
			}
		case <-ctx.Done():
			// funcs[i] продолжает работу в фоне, остальные закрываем принудительно
			errs = append(errs, fmt.Errorf("%s: %w", funcs[i].name, ctx.Err()))
			errs = append(errs, c.forceClose(funcs[:i])...)
			return fmt.Errorf("shutdown interrupted after %d/%d resources: %w", len(funcs)-1-i, len(funcs), errors.Join(errs...))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown finished with errors: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Closer) forceClose(funcs []namedFunc) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, f := range funcs {
		wg.Add(1)
		go func(f namedFunc) {
			defer wg.Done()
			if err := f.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("[forced] %s: %w", f.name, err))
				mu.Unlock()
			}
		}(f)
	}
	wg.Wait()
	return errs
}
