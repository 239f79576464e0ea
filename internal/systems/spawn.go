package systems

import (
	"math"
	"math/rand"

	"github.com/updogjp/infinichess/internal/domain"
)

// SpawnParams - параметры поиска точки спавна
type SpawnParams struct {
	Center     domain.Position
	Radius     int32
	KingBuffer int32 // Короли не появляются ближе этого расстояния друг к другу
	Tries      int
}

// FindSpawn ищет пустую клетку для новой фигуры.
// Сначала случайные попытки внутри круга (или доски), затем кольцевой поиск от центра.
func (r Rules) FindSpawn(w *domain.World, rng *rand.Rand, p SpawnParams) (domain.Position, bool) {
	for i := 0; i < p.Tries; i++ {
		pos := r.randomPoint(rng, p.Center, p.Radius)
		if !r.Contains(pos) || !w.Get(pos.X, pos.Y).IsEmpty() {
			continue
		}
		if kingNearby(w, pos, p.KingBuffer) {
			continue
		}
		return pos, true
	}

	// Запасной вариант: любая свободная клетка ближе всего к центру
	return r.FindFreeNear(w, p.Center, p.Radius)
}

// FindFreeNear - ближайшая свободная клетка к center (кольцами), не дальше maxRing
func (r Rules) FindFreeNear(w *domain.World, center domain.Position, maxRing int32) (domain.Position, bool) {
	if r.Contains(center) && w.Get(center.X, center.Y).IsEmpty() {
		return center, true
	}
	for ring := int32(1); ring <= maxRing; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				// Только периметр кольца
				if dx != -ring && dx != ring && dy != -ring && dy != ring {
					continue
				}
				pos := center.Shift(dx, dy)
				if r.Contains(pos) && w.Get(pos.X, pos.Y).IsEmpty() {
					return pos, true
				}
			}
		}
	}
	return domain.Position{}, false
}

func (r Rules) randomPoint(rng *rand.Rand, center domain.Position, radius int32) domain.Position {
	if r.BoardSize > 0 {
		return domain.Position{
			X: int32(rng.Intn(int(r.BoardSize))),
			Y: int32(rng.Intn(int(r.BoardSize))),
		}
	}
	angle := rng.Float64() * 2 * math.Pi
	dist := rng.Float64() * float64(radius)
	return center.Shift(int32(math.Floor(math.Cos(angle)*dist)), int32(math.Floor(math.Sin(angle)*dist)))
}

func kingNearby(w *domain.World, pos domain.Position, buffer int32) bool {
	if buffer <= 0 {
		return false
	}
	for _, p := range w.QueryRect(pos.X-buffer, pos.Y-buffer, pos.X+buffer, pos.Y+buffer) {
		if p.Type == domain.PieceKing {
			return true
		}
	}
	return false
}
