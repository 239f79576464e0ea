package api

import (
	"errors"
	"fmt"

	"github.com/updogjp/infinichess/internal/domain"
)

// Магические числа в начале каждого фрейма (u16, little-endian)
const (
	MagicVerify     uint16 = 55549
	MagicResume     uint16 = 55550 // C->S запрос и S->C ответ
	MagicIdentity   uint16 = 55551
	MagicCamera     uint16 = 55552
	MagicSnapshot   uint16 = 55553
	MagicMove       uint16 = 55554 // C->S запрос и S->C рассылка
	MagicSet        uint16 = 55555
	MagicToken      uint16 = 55548
	MagicLeaderbd   uint16 = 48027
	MagicChat       uint16 = 47095
	MagicNeutralize uint16 = 64535

	// Второе слово в уведомлении о нейтрализации
	NeutralizeMarker uint16 = 12345
)

// Размеры фиксированных фреймов
const (
	identityHeaderLen = 8
	moveFrameLen      = 20
	cameraFrameLen    = 16
	resumeFrameLen    = 4 + TokenLen
	verifyHeaderLen   = 4

	TokenLen       = 32
	MaxVerifyToken = 2048
	MaxChatBytes   = 256
)

var (
	ErrShortFrame   = errors.New("frame too short")
	ErrUnknownMagic = errors.New("unknown magic")
)

// MessageKind - тип входящего сообщения после декодирования
type MessageKind uint8

const (
	KindUnknown MessageKind = iota
	KindIdentity
	KindMove
	KindCamera
	KindResume
	KindChat
	KindVerify
)

var kindToString = map[MessageKind]string{
	KindIdentity: "IDENTITY",
	KindMove:     "MOVE",
	KindCamera:   "CAMERA",
	KindResume:   "RESUME",
	KindChat:     "CHAT",
	KindVerify:   "VERIFY",
}

func (k MessageKind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ClientMessage - типизированное сообщение от клиента (sum type).
// Конкретные типы: IdentityMsg, MoveMsg, CameraMsg, ResumeMsg, ChatMsg, VerifyMsg.
type ClientMessage interface {
	Kind() MessageKind
}

// --- КЛИЕНТ -> СЕРВЕР ---

// IdentityMsg - имя, цвет и фигура. Запускает спавн.
type IdentityMsg struct {
	Name  string
	Color domain.Color
	Piece domain.PieceType
}

// MoveMsg - запрос хода
type MoveMsg struct {
	From domain.Position
	To   domain.Position
}

// CameraMsg - центр вьюпорта и масштаб*100
type CameraMsg struct {
	X        int32
	Y        int32
	Scale100 int32
}

// Scale - масштаб как число с плавающей точкой
func (m CameraMsg) Scale() float64 {
	return float64(m.Scale100) / 100
}

// ResumeMsg - попытка продолжить сессию по токену
type ResumeMsg struct {
	Token [TokenLen]byte
}

type ChatMsg struct {
	Text string
}

// VerifyMsg - токен капчи/проверки на бота
type VerifyMsg struct {
	Token string
}

func (IdentityMsg) Kind() MessageKind { return KindIdentity }
func (MoveMsg) Kind() MessageKind     { return KindMove }
func (CameraMsg) Kind() MessageKind   { return KindCamera }
func (ResumeMsg) Kind() MessageKind   { return KindResume }
func (ChatMsg) Kind() MessageKind     { return KindChat }
func (VerifyMsg) Kind() MessageKind   { return KindVerify }

// Decode разбирает бинарный фрейм в типизированное сообщение.
// Валидация значений - отдельно (Validator).
func Decode(frame []byte) (ClientMessage, error) {
	if len(frame) < 2 {
		return nil, ErrShortFrame
	}
	magic := le.Uint16(frame)

	switch magic {
	case MagicIdentity:
		if len(frame) < identityHeaderLen {
			return nil, fmt.Errorf("identity: %w", ErrShortFrame)
		}
		nameLen := int(frame[2])
		if len(frame) < identityHeaderLen+nameLen {
			return nil, fmt.Errorf("identity name: %w", ErrShortFrame)
		}
		return IdentityMsg{
			Name:  string(frame[identityHeaderLen : identityHeaderLen+nameLen]),
			Color: domain.Color{R: frame[3], G: frame[4], B: frame[5]},
			Piece: domain.PieceType(frame[6]),
		}, nil

	case MagicMove:
		if len(frame) < moveFrameLen {
			return nil, fmt.Errorf("move: %w", ErrShortFrame)
		}
		return MoveMsg{
			From: domain.Position{X: int32(le.Uint32(frame[4:])), Y: int32(le.Uint32(frame[8:]))},
			To:   domain.Position{X: int32(le.Uint32(frame[12:])), Y: int32(le.Uint32(frame[16:]))},
		}, nil

	case MagicCamera:
		if len(frame) < cameraFrameLen {
			return nil, fmt.Errorf("camera: %w", ErrShortFrame)
		}
		return CameraMsg{
			X:        int32(le.Uint32(frame[4:])),
			Y:        int32(le.Uint32(frame[8:])),
			Scale100: int32(le.Uint32(frame[12:])),
		}, nil

	case MagicResume:
		if len(frame) < resumeFrameLen {
			return nil, fmt.Errorf("resume: %w", ErrShortFrame)
		}
		var msg ResumeMsg
		copy(msg.Token[:], frame[4:resumeFrameLen])
		return msg, nil

	case MagicChat:
		return ChatMsg{Text: string(frame[2:])}, nil

	case MagicVerify:
		if len(frame) < verifyHeaderLen {
			return nil, fmt.Errorf("verify: %w", ErrShortFrame)
		}
		return VerifyMsg{Token: string(frame[verifyHeaderLen:])}, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownMagic, magic)
}
