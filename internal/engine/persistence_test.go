package engine

import (
	"testing"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/infrastructure/storage"
)

func TestLoad_GeneratesWhenEmpty(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 99
	cfg.GenRadius = 64
	s := NewService(cfg, Deps{Store: storage.NewStore(t.TempDir())})

	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.World.Len() == 0 {
		t.Fatal("empty store should produce a generated world")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, _ := setupTest(t)
	s.store = storage.NewStore(dir)

	placeNeutral(s, sq(-3, 4), domain.PieceRook)
	placeNeutral(s, sq(100, 100), domain.PiecePawn)
	a, _ := connectWithPiece(t, s, sq(0, 0), domain.PieceKing)
	s.mu.Lock()
	s.actors[a].Name = "alice"
	s.scores[a] = 9
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg := NewConfig()
	restored := NewService(cfg, Deps{Store: storage.NewStore(dir)})
	if err := restored.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if restored.World.Len() != 2 {
		t.Errorf("restored %d pieces, want only the 2 neutral ones", restored.World.Len())
	}
	if got := restored.PieceAt(sq(-3, 4)); got.Type != domain.PieceRook || !got.Owner.IsNeutral() {
		t.Errorf("restored square = %+v", got)
	}

	_, entries := restored.Leaderboard()
	if len(entries) != 1 || entries[0].Owner != a || entries[0].Kills != 9 || entries[0].Name != "alice" {
		t.Errorf("restored leaderboard = %+v", entries)
	}

	// Переиспользованный ID забирает строку у оффлайн-записи
	restored.mu.Lock()
	restored.nextHuman = a
	restored.mu.Unlock()
	id, _, _ := restored.Connect()
	if id != a {
		t.Fatalf("expected id %d to be reused, got %d", a, id)
	}
	if _, entries := restored.Leaderboard(); len(entries) != 0 {
		t.Errorf("stale offline entry survived id reuse: %+v", entries)
	}
}
