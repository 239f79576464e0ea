package api

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/updogjp/infinichess/internal/domain"
)

// Validator - интерфейс, который могут реализовать сообщения
type Validator interface {
	Validate() error
}

var (
	ErrOutOfRange = errors.New("coordinates out of range")
	ErrBadScale   = errors.New("camera scale must be positive")
	ErrBadPiece   = errors.New("unknown piece type")
	ErrEmptyText  = errors.New("text is empty")
	ErrTooLong    = errors.New("text too long")
)

func (m IdentityMsg) Validate() error {
	// 0 допустим: значит "по умолчанию" (король)
	if m.Piece > domain.PieceKing {
		return ErrBadPiece
	}
	return nil
}

func (m MoveMsg) Validate() error {
	if !m.From.InLimits() || !m.To.InLimits() {
		return ErrOutOfRange
	}
	if m.From == m.To {
		return errors.New("move to the same square")
	}
	return nil
}

func (m CameraMsg) Validate() error {
	if !(domain.Position{X: m.X, Y: m.Y}).InLimits() {
		return ErrOutOfRange
	}
	if m.Scale100 <= 0 {
		return ErrBadScale
	}
	return nil
}

func (m ChatMsg) Validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return ErrEmptyText
	}
	if len(m.Text) > MaxChatBytes {
		return ErrTooLong
	}
	if !utf8.ValidString(m.Text) {
		return errors.New("chat is not valid utf-8")
	}
	return nil
}

func (m VerifyMsg) Validate() error {
	if m.Token == "" {
		return ErrEmptyText
	}
	if len(m.Token) > MaxVerifyToken {
		return ErrTooLong
	}
	return nil
}

// DefaultName - префикс имени для пустого или запрещенного ввода
const DefaultName = "Player"

// FallbackName - имя по умолчанию для владельца: Player17
func FallbackName(id domain.OwnerID) string {
	return DefaultName + strconv.FormatUint(uint64(id), 10)
}

// SanitizeName оставляет только [a-zA-Z0-9_- ], режет до domain.NameMaxLength.
// Пустая строка - имени нет, движок подставит FallbackName.
func SanitizeName(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		if sb.Len() >= domain.NameMaxLength {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == ' ':
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
