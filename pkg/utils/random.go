package utils

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// TokenSize - длина токена продолжения сессии в байтах
const TokenSize = 32

// NewToken создает непредсказуемый токен из двух случайных UUIDv4
func NewToken() []byte {
	a, b := uuid.New(), uuid.New()
	tok := make([]byte, 0, TokenSize)
	tok = append(tok, a[:]...)
	return append(tok, b[:]...)
}

// ConnID - идентификатор соединения для логов
func ConnID() string {
	return uuid.NewString()
}

// NewRand создает генератор. seed == 0 - случайное зерно от времени.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Jitter возвращает base * [1-spread, 1+spread)
func Jitter(rng *rand.Rand, base time.Duration, spread float64) time.Duration {
	if spread <= 0 {
		return base
	}
	k := 1 - spread + rng.Float64()*2*spread
	return time.Duration(float64(base) * k)
}
