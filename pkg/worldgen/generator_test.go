package worldgen

import (
	"testing"

	"github.com/updogjp/infinichess/internal/domain"
)

func TestBuild_Deterministic(t *testing.T) {
	a := New(42).WithRadius(64).Build()
	b := New(42).WithRadius(64).Build()

	if len(a) != len(b) {
		t.Fatalf("same seed gave %d and %d pieces", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("piece %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := New(43).WithRadius(64).Build()
	same := len(a) == len(c)
	for i := 0; same && i < len(a); i++ {
		same = a[i] == c[i]
	}
	if same {
		t.Error("different seeds produced identical worlds")
	}
}

func TestBuild_DensityAndBounds(t *testing.T) {
	const r = 256
	pieces := New(7).WithRadius(r).Build()

	// Площадь круга ~205887 клеток, при 0.2% ожидаем ~411 фигур
	if len(pieces) < 250 || len(pieces) > 600 {
		t.Errorf("generated %d pieces, expected around 411", len(pieces))
	}

	counts := map[domain.PieceType]int{}
	for _, p := range pieces {
		if int64(p.X)*int64(p.X)+int64(p.Y)*int64(p.Y) > r*r {
			t.Fatalf("piece %+v outside radius", p)
		}
		if !p.Owner.IsNeutral() || p.Type == domain.PieceKing || p.IsEmpty() {
			t.Fatalf("unexpected piece %+v", p)
		}
		counts[p.Type]++
	}
	if counts[domain.PiecePawn] <= counts[domain.PieceKnight] {
		t.Errorf("pawns (%d) should dominate knights (%d)", counts[domain.PiecePawn], counts[domain.PieceKnight])
	}
}

func TestBuild_Board(t *testing.T) {
	pieces := New(1).WithBoard(100).WithDensity(0.05).Build()
	if len(pieces) == 0 {
		t.Fatal("board generation produced nothing")
	}
	for _, p := range pieces {
		if p.X < 0 || p.Y < 0 || p.X >= 100 || p.Y >= 100 {
			t.Fatalf("piece %+v outside the board", p)
		}
	}
}

func TestPick(t *testing.T) {
	tests := []struct {
		roll float64
		want domain.PieceType
	}{
		{0, domain.PiecePawn},
		{0.69, domain.PiecePawn},
		{0.705, domain.PieceKnight},
		{0.86, domain.PieceBishop},
		{0.955, domain.PieceRook},
		{0.996, domain.PieceQueen},
	}
	for _, tt := range tests {
		if got := pick(DefaultTemplates, tt.roll); got != tt.want {
			t.Errorf("pick(%v) = %v, want %v", tt.roll, got, tt.want)
		}
	}
}
