package session

import (
	"sync"
	"testing"
	"time"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/utils"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newToken(t *testing.T) Token {
	t.Helper()
	tok, err := TokenFromBytes(utils.NewToken())
	if err != nil {
		t.Fatalf("TokenFromBytes: %v", err)
	}
	return tok
}

func TestRegistry_ResumeIsSingleUse(t *testing.T) {
	reg := NewRegistry(time.Minute)
	tok := newToken(t)
	reg.Park(Record{Token: tok, ID: 5, Kills: 3, Piece: domain.PieceKing}, t0)

	rec, ok := reg.Resume(tok, t0.Add(time.Second))
	if !ok {
		t.Fatal("first resume must succeed")
	}
	if rec.ID != 5 || rec.Kills != 3 {
		t.Errorf("restored record = %+v", rec)
	}

	again, ok := reg.Resume(tok, t0.Add(2*time.Second))
	unknown, okUnknown := reg.Resume(newToken(t), t0.Add(2*time.Second))
	if ok || okUnknown {
		t.Fatal("second resume and unknown token must both be rejected")
	}
	if again != unknown {
		t.Error("consumed and never-issued tokens must be indistinguishable")
	}

	// И после sweep тоже
	reg.Sweep(t0.Add(time.Hour))
	if _, ok := reg.Resume(tok, t0.Add(time.Hour)); ok {
		t.Error("resume after sweep must be rejected")
	}
}

func TestRegistry_Expiry(t *testing.T) {
	reg := NewRegistry(10 * time.Second)
	tok := newToken(t)
	reg.Park(Record{Token: tok, ID: 9}, t0)

	if got := reg.Sweep(t0.Add(9 * time.Second)); len(got) != 0 {
		t.Fatalf("sweep before TTL removed %d records", len(got))
	}

	// Истекшая, но еще не подметенная запись не выдается и остается для Sweep
	if _, ok := reg.Resume(tok, t0.Add(10*time.Second)); ok {
		t.Fatal("expired session must not resume")
	}

	expired := reg.Sweep(t0.Add(11 * time.Second))
	if len(expired) != 1 || expired[0].ID != 9 {
		t.Fatalf("sweep returned %+v", expired)
	}
	if reg.Len() != 0 || reg.HasID(9) {
		t.Error("expired record was not removed")
	}
	if got := reg.Sweep(t0.Add(time.Hour)); len(got) != 0 {
		t.Error("record swept twice")
	}
}

func TestRegistry_OneSessionPerID(t *testing.T) {
	reg := NewRegistry(time.Minute)
	first, second := newToken(t), newToken(t)

	reg.Park(Record{Token: first, ID: 3}, t0)
	reg.Park(Record{Token: second, ID: 3}, t0)

	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
	if _, ok := reg.Resume(first, t0); ok {
		t.Error("replaced token must be dead")
	}
	if _, ok := reg.Resume(second, t0); !ok {
		t.Error("latest token must resume")
	}
}

func TestRegistry_Drop(t *testing.T) {
	reg := NewRegistry(time.Minute)
	tok := newToken(t)
	reg.Park(Record{Token: tok, ID: 4}, t0)

	if _, ok := reg.Drop(4); !ok {
		t.Fatal("Drop should find the session")
	}
	if _, ok := reg.Resume(tok, t0); ok {
		t.Error("dropped session must not resume")
	}
	if _, ok := reg.Drop(4); ok {
		t.Error("second Drop must report nothing")
	}
}

func TestRegistry_ConcurrentResumeWinsOnce(t *testing.T) {
	reg := NewRegistry(time.Minute)
	tok := newToken(t)
	reg.Park(Record{Token: tok, ID: 8}, t0)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := reg.Resume(tok, t0); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("token resumed %d times, want exactly 1", wins)
	}
}

func TestTokenFromBytes(t *testing.T) {
	if _, err := TokenFromBytes([]byte{1, 2, 3}); err == nil {
		t.Error("short token must be rejected")
	}
	if len(utils.NewToken()) != utils.TokenSize {
		t.Error("generated token has wrong size")
	}
}
