package api

import (
	"fmt"

	"github.com/updogjp/infinichess/internal/domain"
)

// --- Сторона клиента: ботам и тестам ---

// Encode - фрейм 55551. Имя длиннее 255 байт обрезается.
func (m IdentityMsg) Encode() []byte {
	name := truncate(m.Name, 255)
	buf := make([]byte, 0, identityHeaderLen+len(name))
	buf = le.AppendUint16(buf, MagicIdentity)
	buf = append(buf, byte(len(name)), m.Color.R, m.Color.G, m.Color.B, byte(m.Piece), 0)
	return append(buf, name...)
}

func (m MoveMsg) Encode() []byte {
	buf := header(MagicMove, 0, moveFrameLen)
	buf = le.AppendUint32(buf, uint32(m.From.X))
	buf = le.AppendUint32(buf, uint32(m.From.Y))
	buf = le.AppendUint32(buf, uint32(m.To.X))
	return le.AppendUint32(buf, uint32(m.To.Y))
}

func (m CameraMsg) Encode() []byte {
	buf := header(MagicCamera, 0, cameraFrameLen)
	buf = le.AppendUint32(buf, uint32(m.X))
	buf = le.AppendUint32(buf, uint32(m.Y))
	return le.AppendUint32(buf, uint32(m.Scale100))
}

func (m ResumeMsg) Encode() []byte {
	buf := header(MagicResume, 0, resumeFrameLen)
	return append(buf, m.Token[:]...)
}

func (m ChatMsg) Encode() []byte {
	buf := le.AppendUint16(make([]byte, 0, 2+len(m.Text)), MagicChat)
	return append(buf, m.Text...)
}

func (m VerifyMsg) Encode() []byte {
	buf := header(MagicVerify, 0, verifyHeaderLen+len(m.Token))
	return append(buf, m.Token...)
}

// Snapshot - разобранный фрейм 55553
type Snapshot struct {
	Actor  domain.OwnerID
	Mode   uint16
	Pieces []domain.Piece
}

// MoveEvent - разобранная рассылка хода 55554
type MoveEvent struct {
	From  domain.Position
	To    domain.Position
	Actor domain.OwnerID
}

// Magic - первое слово фрейма, 0 для пустого
func Magic(frame []byte) uint16 {
	if len(frame) < 2 {
		return 0
	}
	return le.Uint16(frame)
}

func readPiece(b []byte) domain.Piece {
	return domain.Piece{
		X:     int32(le.Uint32(b)),
		Y:     int32(le.Uint32(b[4:])),
		Type:  domain.PieceType(b[8]),
		Owner: domain.OwnerID(le.Uint32(b[12:])),
	}
}

func DecodeSnapshot(frame []byte) (Snapshot, error) {
	if len(frame) < 12 || Magic(frame) != MagicSnapshot {
		return Snapshot{}, fmt.Errorf("snapshot: %w", ErrShortFrame)
	}
	count := int(le.Uint32(frame[8:]))
	if len(frame) < 12+count*pieceRecordLen {
		return Snapshot{}, fmt.Errorf("snapshot pieces: %w", ErrShortFrame)
	}
	snap := Snapshot{
		Actor:  domain.OwnerID(le.Uint32(frame[4:])),
		Mode:   le.Uint16(frame[2:]),
		Pieces: make([]domain.Piece, 0, count),
	}
	for i := 0; i < count; i++ {
		off := 12 + i*pieceRecordLen
		snap.Pieces = append(snap.Pieces, readPiece(frame[off:off+pieceRecordLen]))
	}
	return snap, nil
}

func DecodeSet(frame []byte) (domain.Piece, error) {
	if len(frame) < 4+pieceRecordLen || Magic(frame) != MagicSet {
		return domain.Piece{}, fmt.Errorf("set: %w", ErrShortFrame)
	}
	return readPiece(frame[4:]), nil
}

func DecodeMove(frame []byte) (MoveEvent, error) {
	if len(frame) < 24 || Magic(frame) != MagicMove {
		return MoveEvent{}, fmt.Errorf("move event: %w", ErrShortFrame)
	}
	return MoveEvent{
		From:  domain.Position{X: int32(le.Uint32(frame[4:])), Y: int32(le.Uint32(frame[8:]))},
		To:    domain.Position{X: int32(le.Uint32(frame[12:])), Y: int32(le.Uint32(frame[16:]))},
		Actor: domain.OwnerID(le.Uint32(frame[20:])),
	}, nil
}

// DecodeNeutralize - владельцы, чьи фигуры стали нейтральными
func DecodeNeutralize(frame []byte) ([]domain.OwnerID, error) {
	if len(frame) < 8 || Magic(frame) != MagicNeutralize {
		return nil, fmt.Errorf("neutralize: %w", ErrShortFrame)
	}
	count := int(le.Uint16(frame[4:]))
	if len(frame) < 8+count*4 {
		return nil, fmt.Errorf("neutralize owners: %w", ErrShortFrame)
	}
	out := make([]domain.OwnerID, count)
	for i := range out {
		out[i] = domain.OwnerID(le.Uint32(frame[8+i*4:]))
	}
	return out, nil
}
