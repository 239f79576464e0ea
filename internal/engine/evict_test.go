package engine

import (
	"testing"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/api"
)

func TestEvictNeutral_FarthestFirst(t *testing.T) {
	s, _ := setupTest(t)
	s.cfg.MaxNeutralPieces = 3

	king, _ := connectWithPiece(t, s, sq(0, 0), domain.PieceKing)
	for _, x := range []int32{2, 4, 6, 8, 40} {
		placeNeutral(s, sq(x, 0), domain.PiecePawn)
	}

	viewer, ch, _ := s.Connect()
	watch(t, s, viewer, ch, sq(30, 0))

	s.SweepNeutralize()

	for _, x := range []int32{2, 4, 6} {
		if got := s.PieceAt(sq(x, 0)); got.Type != domain.PiecePawn {
			t.Errorf("pawn at (%d,0) near the player was evicted", x)
		}
	}
	for _, x := range []int32{8, 40} {
		if got := s.PieceAt(sq(x, 0)); !got.IsEmpty() {
			t.Errorf("pawn at (%d,0) should be evicted, got %+v", x, got)
		}
	}
	if got := s.PieceAt(sq(0, 0)); got.Owner != king {
		t.Error("eviction touched an owned piece")
	}

	if st := s.Stats(); st.Neutral != 3 {
		t.Errorf("neutral pieces = %d, want the cap of 3", st.Neutral)
	}
	if sets := drainFrames(ch)[api.MagicSet]; len(sets) != 2 {
		t.Errorf("viewer got %d set frames, want 2", len(sets))
	}
}

func TestEvictNeutral_NoCap(t *testing.T) {
	s, _ := setupTest(t)
	s.cfg.MaxNeutralPieces = 0

	for x := int32(0); x < 10; x++ {
		placeNeutral(s, sq(x*100, 0), domain.PieceRook)
	}
	s.SweepNeutralize()

	if st := s.Stats(); st.Neutral != 10 {
		t.Errorf("neutral pieces = %d, want all 10 kept", st.Neutral)
	}
}
