package session

import (
	"errors"
	"sync"
	"time"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/utils"
)

// Token - непрозрачный токен продолжения
type Token [utils.TokenSize]byte

var ErrBadToken = errors.New("session token must be 32 bytes")

// TokenFromBytes копирует токен из среза
func TokenFromBytes(b []byte) (Token, error) {
	var t Token
	if len(b) != len(t) {
		return t, ErrBadToken
	}
	copy(t[:], b)
	return t, nil
}

// Record - продолжение отключившегося игрока
type Record struct {
	Token     Token
	ID        domain.OwnerID
	Name      string
	Color     domain.Color
	Piece     domain.PieceType // что стоит на доске (с учетом эволюции)
	Choice    domain.PieceType // что игрок выбрал: с этим он респавнится
	Pos       domain.Position
	Kills     int
	ExpiresAt time.Time
}

// Registry хранит ожидающие сессии.
// Запись удаляется ровно один раз: либо Resume, либо Sweep/Drop.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	byToken map[Token]*Record
	byID    map[domain.OwnerID]Token
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		byToken: make(map[Token]*Record),
		byID:    make(map[domain.OwnerID]Token),
	}
}

// TTL - сколько живет ожидающая сессия
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Park переводит игрока в ожидание. Прежняя сессия того же ID (если была) заменяется.
func (r *Registry) Park(rec Record, now time.Time) Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[rec.ID]; ok {
		delete(r.byToken, old)
	}
	rec.ExpiresAt = now.Add(r.ttl)
	stored := rec
	r.byToken[rec.Token] = &stored
	r.byID[rec.ID] = rec.Token
	return stored
}

// Resume забирает сессию по токену. Ответ не отличает "уже использован"
// от "никогда не существовал". Истекшая запись не выдается и ждет Sweep.
func (r *Registry) Resume(tok Token, now time.Time) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byToken[tok]
	if !ok || !now.Before(rec.ExpiresAt) {
		return Record{}, false
	}
	delete(r.byToken, tok)
	delete(r.byID, rec.ID)
	return *rec, true
}

// Sweep удаляет и возвращает все истекшие записи
func (r *Registry) Sweep(now time.Time) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []Record
	for tok, rec := range r.byToken {
		if now.Before(rec.ExpiresAt) {
			continue
		}
		expired = append(expired, *rec)
		delete(r.byToken, tok)
		delete(r.byID, rec.ID)
	}
	return expired
}

// Drop удаляет ожидающую сессию ID (например, его короля съели, пока он был оффлайн)
func (r *Registry) Drop(id domain.OwnerID) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tok, ok := r.byID[id]
	if !ok {
		return Record{}, false
	}
	rec := r.byToken[tok]
	delete(r.byToken, tok)
	delete(r.byID, id)
	return *rec, true
}

// Lookup - ожидающая сессия по ID (без удаления)
func (r *Registry) Lookup(id domain.OwnerID) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tok, ok := r.byID[id]
	if !ok {
		return Record{}, false
	}
	return *r.byToken[tok], true
}

// HasID - есть ли ожидающая сессия у этого ID
func (r *Registry) HasID(id domain.OwnerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byToken)
}

// Records - копия всех ожидающих записей
func (r *Registry) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, 0, len(r.byToken))
	for _, rec := range r.byToken {
		out = append(out, *rec)
	}
	return out
}
