package server

import "time"

// Config - параметры транспорта
type Config struct {
	Port string

	// Пусто - разрешен любой Origin
	AllowedOrigins []string

	MaxMessageSize int64

	// Лимит сообщений одного соединения
	MessageRate  float64
	MessageBurst int
	// После AbuseLimit отброшенных фреймов за AbuseWindow соединение закрывается
	AbuseLimit  int
	AbuseWindow time.Duration

	// Лимит апгрейдов с одного IP
	ConnectRate  float64
	ConnectBurst int
	// Одновременных соединений с одного IP. 0 - без ограничения.
	MaxConnsPerIP int
	// Брать IP из cf-connecting-ip / x-forwarded-for
	TrustProxy bool

	// Сколько помнить использованный токен верификации
	ReplayWindow time.Duration

	EnableDebug bool
}

func NewConfig() Config {
	return Config{
		Port:           "8080",
		MaxMessageSize: 4096,
		MessageRate:    40,
		MessageBurst:   80,
		AbuseLimit:     200,
		AbuseWindow:    time.Minute,
		ConnectRate:    1,
		ConnectBurst:   5,
		MaxConnsPerIP:  1,
		ReplayWindow:   2 * time.Minute,
		EnableDebug:    true,
	}
}
