package worldgen

import (
	"github.com/updogjp/infinichess/internal/domain"
)

// Константы генерации
const (
	DefaultDensity = 0.002 // 0.2% клеток заняты
	DefaultRadius  = 256
)

// Builder собирает нейтральные фигуры стартового мира.
// Результат детерминирован: одна и та же клетка при одном сиде всегда дает одну фигуру.
type Builder struct {
	seed      int64
	density   float64
	radius    int32
	boardSize int32
	templates []PieceTemplate
}

// New создает генератор с настройками по умолчанию
func New(seed int64) *Builder {
	return &Builder{
		seed:      seed,
		density:   DefaultDensity,
		radius:    DefaultRadius,
		templates: DefaultTemplates,
	}
}

func (b *Builder) WithDensity(density float64) *Builder {
	if density > 0 {
		b.density = density
	}
	return b
}

// WithRadius - генерировать в круге радиуса r вокруг начала координат (бесконечный мир)
func (b *Builder) WithRadius(r int32) *Builder {
	if r > 0 {
		b.radius = r
	}
	return b
}

// WithBoard - конечная доска: заполняется вся [0, size)
func (b *Builder) WithBoard(size int32) *Builder {
	b.boardSize = size
	return b
}

func (b *Builder) WithTemplates(t []PieceTemplate) *Builder {
	if len(t) > 0 {
		b.templates = t
	}
	return b
}

// PieceAt - что генератор кладет в клетку (x, y)
func (b *Builder) PieceAt(x, y int32) (domain.PieceType, bool) {
	if noise(b.seed, x, y, 0) >= b.density {
		return domain.PieceEmpty, false
	}
	return pick(b.templates, noise(b.seed, x, y, 1)), true
}

// Build обходит область генерации и возвращает все фигуры
func (b *Builder) Build() []domain.Piece {
	var pieces []domain.Piece

	if b.boardSize > 0 {
		for y := int32(0); y < b.boardSize; y++ {
			for x := int32(0); x < b.boardSize; x++ {
				pieces = b.appendAt(pieces, x, y)
			}
		}
		return pieces
	}

	r := b.radius
	r2 := int64(r) * int64(r)
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if int64(x)*int64(x)+int64(y)*int64(y) > r2 {
				continue
			}
			pieces = b.appendAt(pieces, x, y)
		}
	}
	return pieces
}

func (b *Builder) appendAt(pieces []domain.Piece, x, y int32) []domain.Piece {
	if t, ok := b.PieceAt(x, y); ok {
		pieces = append(pieces, domain.Piece{X: x, Y: y, Type: t, Owner: domain.NeutralOwner})
	}
	return pieces
}

// noise - хеш клетки в [0, 1). salt разводит независимые броски для одной клетки.
func noise(seed int64, x, y int32, salt uint64) float64 {
	h := uint64(seed)
	h ^= uint64(uint32(x)) * 0x9E3779B97F4A7C15
	h ^= uint64(uint32(y)) * 0xC2B2AE3D27D4EB4F
	h ^= salt * 0x165667B19E3779F9
	h = mix64(h)
	return float64(h>>11) / (1 << 53)
}

// mix64 - финализатор splitmix64
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
