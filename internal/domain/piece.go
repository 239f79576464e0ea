package domain

import "strings"

// PieceType - тип фигуры. Значения совпадают с wire-протоколом.
type PieceType uint8

const (
	PieceEmpty PieceType = iota
	PiecePawn
	PieceKnight
	PieceBishop
	PieceRook
	PieceQueen
	PieceKing
)

// Маппинг для конфигов и debug-эндпоинтов
var pieceStringToType = map[string]PieceType{
	"EMPTY":  PieceEmpty,
	"PAWN":   PiecePawn,
	"KNIGHT": PieceKnight,
	"BISHOP": PieceBishop,
	"ROOK":   PieceRook,
	"QUEEN":  PieceQueen,
	"KING":   PieceKing,
}

var pieceTypeToString = map[PieceType]string{
	PieceEmpty:  "EMPTY",
	PiecePawn:   "PAWN",
	PieceKnight: "KNIGHT",
	PieceBishop: "BISHOP",
	PieceRook:   "ROOK",
	PieceQueen:  "QUEEN",
	PieceKing:   "KING",
}

// Буквы для шахматной нотации (пешка без буквы)
var pieceLetters = map[PieceType]string{
	PieceKnight: "N",
	PieceBishop: "B",
	PieceRook:   "R",
	PieceQueen:  "Q",
	PieceKing:   "K",
}

// Ценность фигуры для выбора цели у агентов
var pieceValues = map[PieceType]int{
	PiecePawn:   1,
	PieceKnight: 3,
	PieceBishop: 3,
	PieceRook:   5,
	PieceQueen:  9,
	PieceKing:   10,
}

// ParsePieceType конвертирует строку (из конфига) в PieceType
func ParsePieceType(s string) PieceType {
	if val, ok := pieceStringToType[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return val
	}
	return PieceEmpty
}

func (p PieceType) String() string {
	if val, ok := pieceTypeToString[p]; ok {
		return val
	}
	return "UNKNOWN"
}

// Valid - true для настоящих фигур (Empty не считается)
func (p PieceType) Valid() bool {
	return p >= PiecePawn && p <= PieceKing
}

// IsSlider - фигуры, которые ходят лучами и зависят от дальности
func (p PieceType) IsSlider() bool {
	return p == PieceBishop || p == PieceRook || p == PieceQueen
}

func (p PieceType) Value() int {
	return pieceValues[p]
}

func (p PieceType) Letter() string {
	return pieceLetters[p]
}

// Piece - атомарная сущность мира. Owner 0 = нейтральная фигура.
type Piece struct {
	X     int32     `json:"x"`
	Y     int32     `json:"y"`
	Type  PieceType `json:"type"`
	Owner OwnerID   `json:"owner"`
}

func (p Piece) Pos() Position {
	return Position{X: p.X, Y: p.Y}
}

// IsEmpty - пустая клетка (то же самое, что отсутствие записи)
func (p Piece) IsEmpty() bool {
	return p.Type == PieceEmpty
}
