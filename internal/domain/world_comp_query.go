package domain

import "math"

// QueryRect возвращает все фигуры в прямоугольнике (границы включительно).
// Обходятся только чанки, пересекающие прямоугольник. Если прямоугольник
// накрывает больше чанков, чем вообще существует, - обходим существующие.
func (w *World) QueryRect(minX, minY, maxX, maxY int32) []Piece {
	if minX > maxX || minY > maxY || len(w.chunks) == 0 {
		return nil
	}

	c0 := ChunkOf(minX, minY)
	c1 := ChunkOf(maxX, maxY)
	span := (int64(c1.CX) - int64(c0.CX) + 1) * (int64(c1.CY) - int64(c0.CY) + 1)

	var out []Piece
	collect := func(key ChunkKey, ch *chunk) {
		eachInChunk(key, ch, func(p Piece) bool {
			if p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY {
				out = append(out, p)
			}
			return true
		})
	}

	if span > int64(len(w.chunks)) {
		for key, ch := range w.chunks {
			if key.CX < c0.CX || key.CX > c1.CX || key.CY < c0.CY || key.CY > c1.CY {
				continue
			}
			collect(key, ch)
		}
		return out
	}

	for cy := c0.CY; cy <= c1.CY; cy++ {
		for cx := c0.CX; cx <= c1.CX; cx++ {
			key := ChunkKey{CX: cx, CY: cy}
			if ch, ok := w.chunks[key]; ok {
				collect(key, ch)
			}
		}
	}
	return out
}

// QueryRadius возвращает фигуры на расстоянии не больше r от центра (круг, без корней)
func (w *World) QueryRadius(cx, cy, r int32) []Piece {
	if r < 0 {
		return nil
	}
	center := Position{X: cx, Y: cy}
	r2 := int64(r) * int64(r)

	inRect := w.QueryRect(clampAdd(cx, -r), clampAdd(cy, -r), clampAdd(cx, r), clampAdd(cy, r))
	out := inRect[:0]
	for _, p := range inRect {
		if p.Pos().DistanceSquaredTo(center) <= r2 {
			out = append(out, p)
		}
	}
	return out
}

// clampAdd складывает без переполнения int32
func clampAdd(a, b int32) int32 {
	s := int64(a) + int64(b)
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	if s < math.MinInt32 {
		return math.MinInt32
	}
	return int32(s)
}
