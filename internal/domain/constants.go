package domain

import "time"

// Разбиение мира на чанки
const (
	ChunkSize = 64
)

// Дальность хода дальнобойных фигур растет с количеством взятий
const (
	RangeBase    = 3
	RangePerKill = 1
	RangeCap     = 22
)

// Границы координат. Дальше этого мир считается "бесконечным" только формально.
const (
	MaxCoord = 1 << 24
)

// Интерес-менеджмент
const (
	ViewportRadius   = 50
	SnapshotRadius   = 30
	SnapshotMaxCount = 500
	MinCameraScale   = 0.25
	MaxCameraScale   = 8.0
)

// Тайминги геймплея
const (
	MoveCooldown      = 1500 * time.Millisecond
	LatencyTolerance  = 500 * time.Millisecond
	RespawnDelay      = 5000 * time.Millisecond
	SpawnImmunity     = 3000 * time.Millisecond
	ResyncInterval    = 1000 * time.Millisecond
	NeutralizeEvery   = 440 * time.Millisecond
	ChatWindow        = 10 * time.Second
	ChatMessagesLimit = 3
	ChatMaxLength     = 64
	NameMaxLength     = 16
)

// RangeFor возвращает дальность луча для данного числа взятий
func RangeFor(kills int) int {
	if kills < 0 {
		kills = 0
	}
	r := RangeBase + kills*RangePerKill
	if r > RangeCap {
		return RangeCap
	}
	return r
}
