// Package jitter добавляет случайный разброс к интервалам повторов,
// чтобы параллельные клиенты не повторяли запросы синхронно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент разброса (50%).
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d, увеличенную на случайную долю в пределах [0, factor*d].
func Duration(d time.Duration, factor float64) time.Duration {
	randMutex.Lock()
	extra := globalRand.Float64() * factor * float64(d)
	randMutex.Unlock()
	return d + time.Duration(extra)
}

// ExponentialBackoff считает задержку перед попыткой attempt (с нуля): base*2^attempt, не больше max, плюс разброс.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	delay := base
	for i := 0; i < attempt && delay < max; i++ {
		delay *= 2
	}
	if delay > max {
		delay = max
	}
	return Duration(delay, factor)
}

// Sleep ждёт ExponentialBackoff или завершения done; возвращает false, если ожидание прервано.
func Sleep(done <-chan struct{}, base, max time.Duration, attempt int) bool {
	timer := time.NewTimer(ExponentialBackoff(base, max, attempt, DefaultJitter))
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-done:
		return false
	}
}
