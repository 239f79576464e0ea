package domain

// Position - координата клетки на доске
type Position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// DistanceSquaredTo возвращает квадрат расстояния для сравнения без корней.
// int64, чтобы не переполниться на краях мира.
func (p Position) DistanceSquaredTo(other Position) int64 {
	dx := int64(p.X) - int64(other.X)
	dy := int64(p.Y) - int64(other.Y)
	return dx*dx + dy*dy
}

// ChebyshevTo - "королевское" расстояние
func (p Position) ChebyshevTo(other Position) int64 {
	dx := abs64(int64(p.X) - int64(other.X))
	dy := abs64(int64(p.Y) - int64(other.Y))
	if dx > dy {
		return dx
	}
	return dy
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	return p != other && p.ChebyshevTo(other) == 1
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int32) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// InLimits - координата внутри допустимого диапазона мира
func (p Position) InLimits() bool {
	return p.X >= -MaxCoord && p.X <= MaxCoord && p.Y >= -MaxCoord && p.Y <= MaxCoord
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
