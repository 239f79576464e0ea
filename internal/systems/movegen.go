package systems

import (
	"github.com/updogjp/infinichess/internal/domain"
)

// Смещения ходов
var (
	orthogonal = [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = [4][2]int32{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJump = [8][2]int32{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// Rules - правила ходов. Единственное место, где считается легальность:
// и игроки, и агенты ходят только через Generate.
type Rules struct {
	// BoardSize > 0 включает режим фиксированной доски [0, BoardSize).
	// 0 - бесконечная доска (ограничена только domain.MaxCoord).
	BoardSize int32
}

func NewRules(boardSize int32) Rules {
	if boardSize < 0 {
		boardSize = 0
	}
	return Rules{BoardSize: boardSize}
}

// Contains - клетка внутри доски
func (r Rules) Contains(p domain.Position) bool {
	if r.BoardSize > 0 {
		return p.X >= 0 && p.Y >= 0 && p.X < r.BoardSize && p.Y < r.BoardSize
	}
	return p.InLimits()
}

// Generate возвращает все клетки, куда может пойти фигура из (x, y).
// Пустая клетка - пустой список. Дальность лучей зависит от kills.
func (r Rules) Generate(x, y int32, w *domain.World, actor domain.OwnerID, kills int) []domain.Position {
	src := w.Get(x, y)
	if src.IsEmpty() {
		return nil
	}
	from := domain.Position{X: x, Y: y}

	switch src.Type {
	case domain.PiecePawn:
		moves := make([]domain.Position, 0, 8)
		for _, d := range orthogonal {
			moves = r.appendStep(moves, w, from.Shift(d[0], d[1]), actor)
		}
		// Диагональ - только взятие
		for _, d := range diagonal {
			to := from.Shift(d[0], d[1])
			if !r.Contains(to) {
				continue
			}
			target := w.Get(to.X, to.Y)
			if !target.IsEmpty() && target.Owner != actor {
				moves = append(moves, to)
			}
		}
		return moves

	case domain.PieceKnight:
		moves := make([]domain.Position, 0, 8)
		for _, d := range knightJump {
			moves = r.appendStep(moves, w, from.Shift(d[0], d[1]), actor)
		}
		return moves

	case domain.PieceKing:
		moves := make([]domain.Position, 0, 8)
		for _, d := range orthogonal {
			moves = r.appendStep(moves, w, from.Shift(d[0], d[1]), actor)
		}
		for _, d := range diagonal {
			moves = r.appendStep(moves, w, from.Shift(d[0], d[1]), actor)
		}
		return moves

	case domain.PieceBishop:
		return r.castRays(from, diagonal[:], w, actor, domain.RangeFor(kills))

	case domain.PieceRook:
		return r.castRays(from, orthogonal[:], w, actor, domain.RangeFor(kills))

	case domain.PieceQueen:
		dirs := make([][2]int32, 0, 8)
		dirs = append(dirs, orthogonal[:]...)
		dirs = append(dirs, diagonal[:]...)
		return r.castRays(from, dirs, w, actor, domain.RangeFor(kills))
	}

	return nil
}

// IsLegal - входит ли to в Generate(from)
func (r Rules) IsLegal(from, to domain.Position, w *domain.World, actor domain.OwnerID, kills int) bool {
	for _, m := range r.Generate(from.X, from.Y, w, actor, kills) {
		if m == to {
			return true
		}
	}
	return false
}

// appendStep - одиночный шаг: разрешен, если клетка не занята своей фигурой
func (r Rules) appendStep(moves []domain.Position, w *domain.World, to domain.Position, actor domain.OwnerID) []domain.Position {
	if !r.Contains(to) {
		return moves
	}
	target := w.Get(to.X, to.Y)
	if !target.IsEmpty() && target.Owner == actor {
		return moves
	}
	return append(moves, to)
}

// castRays - лучи для слона/ладьи/ферзя.
// Луч останавливается на первой занятой клетке: включительно, если это чужая фигура,
// и перед ней, если своя.
func (r Rules) castRays(from domain.Position, dirs [][2]int32, w *domain.World, actor domain.OwnerID, maxRange int) []domain.Position {
	moves := make([]domain.Position, 0, len(dirs)*maxRange)
	for _, d := range dirs {
		pos := from
		for step := 0; step < maxRange; step++ {
			pos = pos.Shift(d[0], d[1])
			if !r.Contains(pos) {
				break
			}
			target := w.Get(pos.X, pos.Y)
			if target.IsEmpty() {
				moves = append(moves, pos)
				continue
			}
			if target.Owner != actor {
				moves = append(moves, pos)
			}
			break
		}
	}
	return moves
}
