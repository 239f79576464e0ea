package domain

import (
	"strconv"
	"strings"
)

// ColumnNotation: 0..25 -> a..z, 26..51 -> 2a..2z и так далее.
// Отрицательные колонки помечаются минусом: -1 -> -a.
func ColumnNotation(col int32) string {
	var sb strings.Builder
	c := int64(col)
	if c < 0 {
		sb.WriteByte('-')
		c = -c - 1
	}
	prefix := c / 26
	if prefix > 0 {
		sb.WriteString(strconv.FormatInt(prefix+1, 10))
	}
	sb.WriteByte(byte('a' + c%26))
	return sb.String()
}

// RowNotation: ряды считаются сверху, как на доске 64x64 (y=0 -> "64")
func RowNotation(row int32) string {
	return strconv.FormatInt(64-int64(row), 10)
}

func SquareNotation(p Position) string {
	return ColumnNotation(p.X) + RowNotation(p.Y)
}

// Notation форматирует ход для логов: "Ne4-f6", "Kb2xc3"
func Notation(t PieceType, from, to Position, capture bool) string {
	sep := "-"
	if capture {
		sep = "x"
	}
	return t.Letter() + SquareNotation(from) + sep + SquareNotation(to)
}
