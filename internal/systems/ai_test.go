package systems

import (
	"math/rand"
	"testing"

	"github.com/updogjp/infinichess/internal/domain"
)

const (
	bot   domain.OwnerID = 100001
	other domain.OwnerID = 100002
	human domain.OwnerID = 12
)

func viewFor(w *domain.World, from domain.Position, self domain.OwnerID) AgentView {
	return AgentView{
		Self:        self,
		From:        from,
		Moves:       NewRules(0).Generate(from.X, from.Y, w, self, 0),
		World:       w,
		ScanRadius:  24,
		CaptureBias: 1,
	}
}

func TestChooseAgentMove(t *testing.T) {
	t.Run("Prefers human over neutral and rival agent", func(t *testing.T) {
		w := domain.NewWorld()
		w.Set(0, 0, domain.PieceKing, bot)
		w.Set(1, 0, domain.PieceQueen, other)
		w.Set(0, 1, domain.PieceRook, domain.NeutralOwner)
		w.Set(-1, 0, domain.PiecePawn, human)

		dec, ok := ChooseAgentMove(viewFor(w, domain.Position{}, bot), rand.New(rand.NewSource(1)))
		if !ok || !dec.Capture {
			t.Fatalf("expected capture, got %+v ok=%v", dec, ok)
		}
		if dec.To != (domain.Position{X: -1, Y: 0}) {
			t.Errorf("expected to capture the human pawn, went to %v", dec.To)
		}
	})

	t.Run("Neutral beats rival agent", func(t *testing.T) {
		w := domain.NewWorld()
		w.Set(0, 0, domain.PieceKing, bot)
		w.Set(1, 0, domain.PieceQueen, other)
		w.Set(0, 1, domain.PiecePawn, domain.NeutralOwner)

		dec, _ := ChooseAgentMove(viewFor(w, domain.Position{}, bot), rand.New(rand.NewSource(1)))
		if dec.To != (domain.Position{X: 0, Y: 1}) {
			t.Errorf("expected neutral capture, went to %v", dec.To)
		}
	})

	t.Run("Protected human is skipped", func(t *testing.T) {
		w := domain.NewWorld()
		w.Set(0, 0, domain.PieceKing, bot)
		w.Set(1, 0, domain.PieceKing, human)

		v := viewFor(w, domain.Position{}, bot)
		v.Protected = func(domain.OwnerID) bool { return true }
		dec, ok := ChooseAgentMove(v, rand.New(rand.NewSource(3)))
		if !ok {
			t.Fatal("agent should still have quiet moves")
		}
		if dec.To == (domain.Position{X: 1, Y: 0}) {
			t.Error("agent captured an immune human")
		}
	})

	t.Run("Escort never captures ward", func(t *testing.T) {
		w := domain.NewWorld()
		w.Set(0, 0, domain.PieceKnight, bot)
		w.Set(1, 2, domain.PieceKing, human)

		v := viewFor(w, domain.Position{}, bot)
		v.Ward = human
		for seed := int64(0); seed < 20; seed++ {
			dec, _ := ChooseAgentMove(v, rand.New(rand.NewSource(seed)))
			if dec.To == (domain.Position{X: 1, Y: 2}) {
				t.Fatal("escort captured its ward")
			}
		}
	})

	t.Run("Escort returns to ward beyond leash", func(t *testing.T) {
		w := domain.NewWorld()
		w.Set(0, 0, domain.PieceKing, bot)
		ward := domain.Position{X: 20, Y: 0}
		w.Set(ward.X, ward.Y, domain.PieceKing, human)

		v := viewFor(w, domain.Position{}, bot)
		v.Ward = human
		v.WardPos = &ward
		v.Leash = 6
		dec, ok := ChooseAgentMove(v, rand.New(rand.NewSource(1)))
		if !ok || dec.Reason != "follow" {
			t.Fatalf("expected follow move, got %+v", dec)
		}
		if dec.To.X != 1 {
			t.Errorf("escort should step toward ward, went to %v", dec.To)
		}
	})

	t.Run("Approaches nearest target when no captures", func(t *testing.T) {
		w := domain.NewWorld()
		w.Set(0, 0, domain.PieceKing, bot)
		w.Set(0, 10, domain.PiecePawn, domain.NeutralOwner)
		w.Set(0, -20, domain.PiecePawn, domain.NeutralOwner)

		dec, ok := ChooseAgentMove(viewFor(w, domain.Position{}, bot), rand.New(rand.NewSource(1)))
		if !ok || dec.Reason != "approach" {
			t.Fatalf("expected approach move, got %+v", dec)
		}
		if dec.To.Y != 1 {
			t.Errorf("expected step toward (0,10), got %v", dec.To)
		}
	})

	t.Run("Wanders when alone", func(t *testing.T) {
		w := domain.NewWorld()
		w.Set(0, 0, domain.PieceKing, bot)

		dec, ok := ChooseAgentMove(viewFor(w, domain.Position{}, bot), rand.New(rand.NewSource(1)))
		if !ok || dec.Reason != "wander" {
			t.Fatalf("expected wander, got %+v", dec)
		}
		if !dec.To.IsAdjacent(domain.Position{}) {
			t.Errorf("king wandered too far: %v", dec.To)
		}
	})

	t.Run("No moves", func(t *testing.T) {
		w := domain.NewWorld()
		if _, ok := ChooseAgentMove(viewFor(w, domain.Position{}, bot), rand.New(rand.NewSource(1))); ok {
			t.Error("empty square must produce no decision")
		}
	})
}
