package api

import (
	"encoding/binary"

	"github.com/updogjp/infinichess/internal/domain"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Статусы ответа на resume
const (
	ResumeRejected uint8 = 0
	ResumeOK       uint8 = 1
)

// Режим доски в снапшоте
const (
	ModeBoard    uint16 = 0
	ModeInfinite uint16 = 1
)

// pieceRecordLen: int32 x, int32 y, u8 type, 3 байта выравнивания, u32 owner
const pieceRecordLen = 16

var le = binary.LittleEndian

func header(magic, second uint16, capacity int) []byte {
	buf := make([]byte, 0, capacity)
	buf = le.AppendUint16(buf, magic)
	return le.AppendUint16(buf, second)
}

func appendPiece(buf []byte, p domain.Piece) []byte {
	buf = le.AppendUint32(buf, uint32(p.X))
	buf = le.AppendUint32(buf, uint32(p.Y))
	buf = append(buf, byte(p.Type), 0, 0, 0)
	return le.AppendUint32(buf, uint32(p.Owner))
}

// EncodeSnapshot - полный снимок вьюпорта
func EncodeSnapshot(actor domain.OwnerID, mode uint16, pieces []domain.Piece) []byte {
	buf := header(MagicSnapshot, mode, 12+len(pieces)*pieceRecordLen)
	buf = le.AppendUint32(buf, uint32(actor))
	buf = le.AppendUint32(buf, uint32(len(pieces)))
	for _, p := range pieces {
		buf = appendPiece(buf, p)
	}
	return buf
}

// EncodeSet - изменение одной клетки
func EncodeSet(p domain.Piece) []byte {
	return appendPiece(header(MagicSet, 0, 4+pieceRecordLen), p)
}

// EncodeMove - рассылка хода
func EncodeMove(from, to domain.Position, actor domain.OwnerID) []byte {
	buf := header(MagicMove, 0, 24)
	buf = le.AppendUint32(buf, uint32(from.X))
	buf = le.AppendUint32(buf, uint32(from.Y))
	buf = le.AppendUint32(buf, uint32(to.X))
	buf = le.AppendUint32(buf, uint32(to.Y))
	return le.AppendUint32(buf, uint32(actor))
}

// ResumeInfo - восстановленная личность в ответе на resume
type ResumeInfo struct {
	ID    domain.OwnerID
	Pos   domain.Position
	Kills int
	Piece domain.PieceType
	Name  string
	Color domain.Color
}

// EncodeResumeOK - успешное продолжение сессии
func EncodeResumeOK(info ResumeInfo) []byte {
	name := truncate(info.Name, 255)
	buf := make([]byte, 0, 24+len(name))
	buf = le.AppendUint16(buf, MagicResume)
	buf = append(buf, ResumeOK, 0)
	buf = le.AppendUint32(buf, uint32(info.ID))
	buf = le.AppendUint32(buf, uint32(info.Pos.X))
	buf = le.AppendUint32(buf, uint32(info.Pos.Y))
	buf = le.AppendUint32(buf, uint32(info.Kills))
	buf = append(buf, byte(info.Piece), byte(len(name)), info.Color.R, info.Color.G, info.Color.B, 0)
	return append(buf, name...)
}

// EncodeResumeRejected - одинаковый ответ для неизвестного, истекшего и уже использованного токена
func EncodeResumeRejected() []byte {
	buf := le.AppendUint16(make([]byte, 0, 4), MagicResume)
	return append(buf, ResumeRejected, 0)
}

// EncodeSessionToken - выдача токена продолжения
func EncodeSessionToken(token []byte) []byte {
	buf := header(MagicToken, 0, 4+TokenLen)
	var fixed [TokenLen]byte
	copy(fixed[:], token)
	return append(buf, fixed[:]...)
}

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	Owner domain.OwnerID `json:"owner"`
	Kills int            `json:"kills"`
	Name  string         `json:"name"`
}

// EncodeLeaderboard - таблица лидеров + сколько игроков онлайн
func EncodeLeaderboard(online int, entries []LeaderboardEntry) []byte {
	buf := le.AppendUint16(make([]byte, 0, 6+len(entries)*16), MagicLeaderbd)
	buf = le.AppendUint16(buf, clampU16(online))
	buf = le.AppendUint16(buf, clampU16(len(entries)))
	for i, e := range entries {
		if i >= 0xFFFF {
			break
		}
		name := truncate(e.Name, 255)
		buf = le.AppendUint32(buf, uint32(e.Owner))
		buf = le.AppendUint32(buf, uint32(e.Kills))
		buf = append(buf, byte(len(name)))
		buf = append(buf, name...)
	}
	return buf
}

// EncodeNeutralize - массовое уведомление: фигуры этих владельцев стали нейтральными
func EncodeNeutralize(owners []domain.OwnerID) []byte {
	buf := header(MagicNeutralize, NeutralizeMarker, 8+len(owners)*4)
	buf = le.AppendUint16(buf, clampU16(len(owners)))
	buf = le.AppendUint16(buf, 0)
	for i, id := range owners {
		if i >= 0xFFFF {
			break
		}
		buf = le.AppendUint32(buf, uint32(id))
	}
	return buf
}

// EncodeChat - сообщение чата
func EncodeChat(sender domain.OwnerID, text string) []byte {
	buf := header(MagicChat, 0, 8+len(text))
	buf = le.AppendUint32(buf, uint32(sender))
	return append(buf, text...)
}

func clampU16(n int) uint16 {
	if n < 0 {
		return 0
	}
	if n > 0xFFFF {
		return 0xFFFF
	}
	return uint16(n)
}

// truncate режет строку по байтам, не ломая UTF-8
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && (s[cut]&0xC0) == 0x80 {
		cut--
	}
	return s[:cut]
}
