package worldgen

import "github.com/updogjp/infinichess/internal/domain"

// PieceTemplate - строка таблицы появления нейтральных фигур
type PieceTemplate struct {
	Type   domain.PieceType
	Weight int
}

// DefaultTemplates - пешки чаще всего, ферзь редкость
var DefaultTemplates = []PieceTemplate{
	{Type: domain.PiecePawn, Weight: 70},
	{Type: domain.PieceKnight, Weight: 15},
	{Type: domain.PieceBishop, Weight: 10},
	{Type: domain.PieceRook, Weight: 4},
	{Type: domain.PieceQueen, Weight: 1},
}

// pick выбирает тип по весам. roll в [0, 1).
func pick(table []PieceTemplate, roll float64) domain.PieceType {
	total := 0
	for _, t := range table {
		total += t.Weight
	}
	if total <= 0 {
		return domain.PiecePawn
	}

	target := int(roll * float64(total))
	for _, t := range table {
		if target < t.Weight {
			return t.Type
		}
		target -= t.Weight
	}
	return table[len(table)-1].Type
}
