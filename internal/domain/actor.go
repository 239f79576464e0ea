package domain

import "time"

// Color - цвет игрока (RGB как в протоколе)
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Camera - центр и масштаб вьюпорта наблюдателя
type Camera struct {
	X     int32   `json:"x"`
	Y     int32   `json:"y"`
	Scale float64 `json:"scale"`
}

// ClampScale приводит масштаб к допустимому диапазону
func ClampScale(scale float64) float64 {
	if scale != scale || scale <= 0 { // NaN или мусор
		return 1
	}
	if scale < MinCameraScale {
		return MinCameraScale
	}
	if scale > MaxCameraScale {
		return MaxCameraScale
	}
	return scale
}

// Actor - человек за соединением. Агентов держит контроллер агентов.
type Actor struct {
	ID    OwnerID   `json:"id"`
	Name  string    `json:"name"`
	Color Color     `json:"color"`
	Piece PieceType `json:"piece"` // Выбранная фигура для спавна

	Verified   bool     `json:"verified"`
	Identified bool     `json:"identified"` // Прислал имя/цвет/фигуру
	HasPiece   bool     `json:"hasPiece"`
	Dead       bool     `json:"dead"`
	Primary    Position `json:"primary"` // Где стоит фигура, с которой игрок заспавнился

	RespawnAt  time.Time `json:"respawnAt"`
	SpawnedAt  time.Time `json:"spawnedAt"`
	LastMoveAt time.Time `json:"lastMoveAt"`

	// Токен продолжения сессии. Выдается при спавне, уходит в реестр при отключении.
	SessionToken []byte `json:"-"`
}

// Alive - фигура на доске и игрок не выбит
func (a *Actor) Alive() bool {
	return a.HasPiece && !a.Dead
}

// Immune - защита от ИИ сразу после появления
func (a *Actor) Immune(now time.Time, window time.Duration) bool {
	return a.HasPiece && now.Sub(a.SpawnedAt) < window
}

// CanRespawn - можно ли заспавниться заново
func (a *Actor) CanRespawn(now time.Time) bool {
	if a.HasPiece && !a.Dead {
		return false
	}
	return !now.Before(a.RespawnAt)
}
