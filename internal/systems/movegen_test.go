package systems

import (
	"math/rand"
	"testing"

	"github.com/updogjp/infinichess/internal/domain"
)

const (
	me    domain.OwnerID = 7
	rival domain.OwnerID = 8
)

func asSet(moves []domain.Position) map[domain.Position]bool {
	out := make(map[domain.Position]bool, len(moves))
	for _, m := range moves {
		out[m] = true
	}
	return out
}

func TestGenerate_EmptySource(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(0)

	if got := rules.Generate(0, 0, w, me, 0); len(got) != 0 {
		t.Errorf("empty square must have no moves, got %v", got)
	}
}

func TestGenerate_Pawn(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(0)

	w.Set(0, 0, domain.PiecePawn, me)
	w.Set(1, 0, domain.PieceRook, me)     // своя справа - блок
	w.Set(0, 1, domain.PieceKnight, rival) // чужая снизу - можно взять
	w.Set(1, 1, domain.PiecePawn, 0)      // нейтральная по диагонали - взятие
	w.Set(-1, -1, domain.PiecePawn, me)   // своя по диагонали - нельзя

	moves := asSet(rules.Generate(0, 0, w, me, 0))

	want := []domain.Position{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	for _, m := range want {
		if !moves[m] {
			t.Errorf("expected pawn move to %v", m)
		}
	}
	if moves[domain.Position{X: 1, Y: 0}] {
		t.Error("pawn must not move onto own piece")
	}
	if moves[domain.Position{X: 1, Y: -1}] || moves[domain.Position{X: -1, Y: 1}] {
		t.Error("empty diagonal is not a legal pawn move")
	}
	if moves[domain.Position{X: -1, Y: -1}] {
		t.Error("own piece on diagonal is not capturable")
	}
	if len(moves) != len(want) {
		t.Errorf("got %d pawn moves, want %d: %v", len(moves), len(want), moves)
	}
}

func TestGenerate_KnightAndKing(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(0)

	w.Set(0, 0, domain.PieceKnight, me)
	w.Set(1, 2, domain.PiecePawn, me)
	w.Set(2, 1, domain.PiecePawn, rival)

	knight := asSet(rules.Generate(0, 0, w, me, 0))
	if len(knight) != 7 {
		t.Errorf("knight should have 7 moves, got %d", len(knight))
	}
	if knight[domain.Position{X: 1, Y: 2}] {
		t.Error("knight must not land on own piece")
	}
	if !knight[domain.Position{X: 2, Y: 1}] {
		t.Error("knight should capture rival")
	}

	w.Set(10, 10, domain.PieceKing, me)
	w.Set(11, 10, domain.PiecePawn, me)
	king := asSet(rules.Generate(10, 10, w, me, 5))
	if len(king) != 7 {
		t.Errorf("king should have 7 moves, got %d", len(king))
	}
}

func TestGenerate_RaysStopAtPieces(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(0)

	w.Set(0, 0, domain.PieceRook, me)
	w.Set(2, 0, domain.PiecePawn, rival) // вправо: 1 пусто, 2 взятие
	w.Set(0, 2, domain.PiecePawn, me)    // вниз: только 1

	moves := asSet(rules.Generate(0, 0, w, me, 0))

	if !moves[domain.Position{X: 1, Y: 0}] || !moves[domain.Position{X: 2, Y: 0}] {
		t.Error("rook should reach (1,0) and capture at (2,0)")
	}
	if moves[domain.Position{X: 3, Y: 0}] {
		t.Error("ray must stop at captured piece")
	}
	if !moves[domain.Position{X: 0, Y: 1}] || moves[domain.Position{X: 0, Y: 2}] {
		t.Error("ray must stop before own piece")
	}
	// влево и вверх - по RangeBase
	if !moves[domain.Position{X: -domain.RangeBase, Y: 0}] || moves[domain.Position{X: -domain.RangeBase - 1, Y: 0}] {
		t.Errorf("left ray should be exactly %d long", domain.RangeBase)
	}
}

func TestGenerate_RangeScaling(t *testing.T) {
	tests := []struct {
		name  string
		kills int
		want  int
	}{
		{"no kills", 0, domain.RangeBase},
		{"nineteen kills", 19, min(domain.RangeCap, domain.RangeBase+19)},
		{"capped", 500, domain.RangeCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := domain.NewWorld()
			w.Set(0, 0, domain.PieceBishop, me)

			moves := NewRules(0).Generate(0, 0, w, me, tt.kills)
			// 4 диагонали по want клеток
			if len(moves) != 4*tt.want {
				t.Errorf("bishop with %d kills: %d moves, want %d", tt.kills, len(moves), 4*tt.want)
			}
			for _, m := range moves {
				d := m.ChebyshevTo(domain.Position{})
				if d > domain.RangeCap {
					t.Fatalf("move %v exceeds cap", m)
				}
			}
		})
	}
}

func TestGenerate_QueenCoversAllDirections(t *testing.T) {
	w := domain.NewWorld()
	w.Set(0, 0, domain.PieceQueen, me)

	moves := NewRules(0).Generate(0, 0, w, me, 0)
	if len(moves) != 8*domain.RangeBase {
		t.Errorf("queen: %d moves, want %d", len(moves), 8*domain.RangeBase)
	}
}

func TestGenerate_BoardMode(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(64)
	w.Set(0, 0, domain.PieceKing, me)

	moves := rules.Generate(0, 0, w, me, 0)
	if len(moves) != 3 {
		t.Errorf("king in the corner of a fixed board has 3 moves, got %d: %v", len(moves), moves)
	}
	for _, m := range moves {
		if !rules.Contains(m) {
			t.Errorf("move %v leaves the board", m)
		}
	}
}

func TestIsLegal(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(0)
	w.Set(5, 5, domain.PieceKing, me)

	if !rules.IsLegal(domain.Position{X: 5, Y: 5}, domain.Position{X: 6, Y: 6}, w, me, 0) {
		t.Error("adjacent square should be legal for king")
	}
	if rules.IsLegal(domain.Position{X: 5, Y: 5}, domain.Position{X: 7, Y: 5}, w, me, 0) {
		t.Error("two squares away is illegal for king")
	}
}

func TestFindSpawn_AvoidsKings(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(0)
	rng := rand.New(rand.NewSource(1))
	w.Set(0, 0, domain.PieceKing, rival)

	for i := 0; i < 50; i++ {
		pos, ok := rules.FindSpawn(w, rng, SpawnParams{Radius: 40, KingBuffer: 4, Tries: 100})
		if !ok {
			t.Fatal("expected a spawn location")
		}
		if !w.Get(pos.X, pos.Y).IsEmpty() {
			t.Fatalf("spawn on occupied square %v", pos)
		}
		if pos.ChebyshevTo(domain.Position{}) <= 4 {
			t.Fatalf("spawn %v is within king buffer", pos)
		}
	}
}

func TestFindFreeNear(t *testing.T) {
	w := domain.NewWorld()
	rules := NewRules(0)
	w.Set(0, 0, domain.PieceKing, me)

	pos, ok := rules.FindFreeNear(w, domain.Position{}, 3)
	if !ok {
		t.Fatal("expected free square")
	}
	if pos.ChebyshevTo(domain.Position{}) != 1 {
		t.Errorf("expected adjacent square, got %v", pos)
	}

	if _, ok := rules.FindFreeNear(w, domain.Position{}, 0); ok {
		t.Error("ring 0 around an occupied center has no free square")
	}
}
