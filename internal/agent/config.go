package agent

import "time"

// Config - параметры контроллера автономных фигур
type Config struct {
	Enabled bool

	// Tick - период цикла планировщика
	Tick time.Duration

	// MoveInterval x [1-Jitter, 1+Jitter) - пауза между решениями агента
	MoveInterval time.Duration
	Jitter       float64

	CaptureBias float64
	ScanRadius  int32

	// Население
	AgentsPerPlayer int
	MaxAgents       int
	SpawnRadius     int32
	SpawnPerRound   int
	PopulateEvery   time.Duration
	CullDistance    int32

	// Эскорт
	EscortsPerPlayer int
	EscortLeash      int64

	Seed int64
}

// NewConfig - значения по умолчанию
func NewConfig() Config {
	return Config{
		Enabled:          true,
		Tick:             100 * time.Millisecond,
		MoveInterval:     3000 * time.Millisecond,
		Jitter:           0.5,
		CaptureBias:      0.85,
		ScanRadius:       24,
		AgentsPerPlayer:  8,
		MaxAgents:        400,
		SpawnRadius:      150,
		SpawnPerRound:    3,
		PopulateEvery:    2 * time.Second,
		CullDistance:     300,
		EscortsPerPlayer: 2,
		EscortLeash:      6,
	}
}
