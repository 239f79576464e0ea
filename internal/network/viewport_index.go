package network

import (
	"math"

	"github.com/updogjp/infinichess/internal/domain"
)

// Размер ячейки индекса вьюпортов. Совпадает с чанком мира.
const cellSize = domain.ChunkSize

type cellKey struct {
	cx int32
	cy int32
}

// cellSpan - прямоугольник ячеек (включительно)
type cellSpan struct {
	minX, minY, maxX, maxY int32
}

func toCell(v float64) int32 {
	return int32(math.Floor(v / cellSize))
}

// spanFor - ячейки, которые накрывает описанный квадрат круга обзора
func spanFor(cam domain.Camera, radius float64) cellSpan {
	return cellSpan{
		minX: toCell(float64(cam.X) - radius),
		minY: toCell(float64(cam.Y) - radius),
		maxX: toCell(float64(cam.X) + radius),
		maxY: toCell(float64(cam.Y) + radius),
	}
}

// viewportIndex - какие наблюдатели смотрят на какую ячейку.
// Наблюдатель числится во всех ячейках своего вьюпорта, поэтому для события
// достаточно заглянуть в одну ячейку. Синхронизация - снаружи (Router.mu).
type viewportIndex struct {
	cells map[cellKey]map[domain.OwnerID]*viewer
}

func newViewportIndex() *viewportIndex {
	return &viewportIndex{cells: make(map[cellKey]map[domain.OwnerID]*viewer)}
}

func (ix *viewportIndex) add(v *viewer, s cellSpan) {
	for cy := s.minY; cy <= s.maxY; cy++ {
		for cx := s.minX; cx <= s.maxX; cx++ {
			k := cellKey{cx, cy}
			cell := ix.cells[k]
			if cell == nil {
				cell = make(map[domain.OwnerID]*viewer)
				ix.cells[k] = cell
			}
			cell[v.id] = v
		}
	}
}

func (ix *viewportIndex) remove(id domain.OwnerID, s cellSpan) {
	for cy := s.minY; cy <= s.maxY; cy++ {
		for cx := s.minX; cx <= s.maxX; cx++ {
			k := cellKey{cx, cy}
			if cell := ix.cells[k]; cell != nil {
				delete(cell, id)
				if len(cell) == 0 {
					delete(ix.cells, k)
				}
			}
		}
	}
}

// at - наблюдатели, чьи вьюпорты могут накрывать клетку. Точная проверка - у вызывающего.
func (ix *viewportIndex) at(pos domain.Position) map[domain.OwnerID]*viewer {
	return ix.cells[cellKey{toCell(float64(pos.X)), toCell(float64(pos.Y))}]
}

func (ix *viewportIndex) size() int {
	return len(ix.cells)
}
