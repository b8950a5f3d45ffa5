package usecase

// Result — итог операции для UI: либо значение, либо ошибка. Паника через границу не проходит.
type Result[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Unwrap возвращает пару (значение, ошибка).
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}
