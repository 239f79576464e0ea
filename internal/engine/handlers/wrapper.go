package handlers

import (
	"fmt"

	"github.com/updogjp/infinichess/pkg/api"
)

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T api.ClientMessage] func(ctx Context, msg T) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя приведение типа и Validate.
func WithPayload[T api.ClientMessage](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, msg api.ClientMessage) (Result, error) {
		// 1. Приведение к конкретному сообщению
		payload, ok := msg.(T)
		if !ok {
			return Result{}, fmt.Errorf("invalid payload type %T", msg)
		}

		// 2. Автоматическая валидация
		// Проверяем, реализует ли структура T интерфейс Validator
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		// 3. Вызов чистой логики
		return handler(ctx, payload)
	}
}
