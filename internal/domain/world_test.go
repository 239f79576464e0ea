package domain

import (
	"math/rand"
	"testing"
)

func TestWorld_GetUnsetReturnsEmpty(t *testing.T) {
	w := NewWorld()

	p := w.Get(-7, 1000)
	if !p.IsEmpty() || p.Owner != NeutralOwner {
		t.Fatalf("expected empty neutral sentinel, got %+v", p)
	}
	if p.X != -7 || p.Y != 1000 {
		t.Errorf("sentinel should carry coordinates, got (%d,%d)", p.X, p.Y)
	}
}

func TestWorld_SetAndClear(t *testing.T) {
	w := NewWorld()

	w.Set(5, 5, PieceKing, 3)
	if got := w.Get(5, 5); got.Type != PieceKing || got.Owner != 3 {
		t.Fatalf("Get after Set = %+v", got)
	}
	if w.Len() != 1 || w.ChunkCount() != 1 {
		t.Fatalf("Len=%d ChunkCount=%d, want 1/1", w.Len(), w.ChunkCount())
	}

	// Перезапись не увеличивает счетчик
	w.Set(5, 5, PieceRook, 4)
	if w.Len() != 1 {
		t.Errorf("overwrite changed Len to %d", w.Len())
	}

	w.Set(5, 5, PieceEmpty, 0)
	if !w.Get(5, 5).IsEmpty() {
		t.Error("square should be empty after clearing")
	}
	if w.Len() != 0 {
		t.Errorf("Len = %d after clear", w.Len())
	}
	if w.ChunkCount() != 0 {
		t.Errorf("empty chunk was not pruned, ChunkCount = %d", w.ChunkCount())
	}

	// Повторная очистка пустой клетки ничего не ломает
	w.Set(5, 5, PieceEmpty, 0)
	if w.Len() != 0 {
		t.Errorf("double clear changed Len to %d", w.Len())
	}
}

func TestWorld_NeutralLen(t *testing.T) {
	w := NewWorld()

	steps := []struct {
		name  string
		apply func()
		want  int
	}{
		{"neutral pawn", func() { w.Set(0, 0, PiecePawn, NeutralOwner) }, 1},
		{"owned rook", func() { w.Set(1, 0, PieceRook, 7) }, 1},
		{"pawn absorbed", func() { w.Set(0, 0, PiecePawn, 7) }, 0},
		{"rook released", func() { w.Set(1, 0, PieceRook, NeutralOwner) }, 1},
		{"rook removed", func() { w.Remove(1, 0) }, 0},
		{"owned pawn removed", func() { w.Remove(0, 0) }, 0},
	}

	for _, st := range steps {
		st.apply()
		if got := w.NeutralLen(); got != st.want {
			t.Fatalf("%s: NeutralLen = %d, want %d", st.name, got, st.want)
		}
	}
	if w.Len() != 0 {
		t.Errorf("Len = %d after removing everything", w.Len())
	}
}

func TestWorld_NegativeCoordinatesUseFloorChunks(t *testing.T) {
	tests := []struct {
		x, y int32
		want ChunkKey
	}{
		{0, 0, ChunkKey{0, 0}},
		{63, 63, ChunkKey{0, 0}},
		{64, 0, ChunkKey{1, 0}},
		{-1, -1, ChunkKey{-1, -1}},
		{-64, -65, ChunkKey{-1, -2}},
	}

	for _, tt := range tests {
		if got := ChunkOf(tt.x, tt.y); got != tt.want {
			t.Errorf("ChunkOf(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	w := NewWorld()
	w.Set(-1, -1, PiecePawn, 0)
	w.Set(0, 0, PiecePawn, 0)
	if w.ChunkCount() != 2 {
		t.Errorf("(-1,-1) and (0,0) must live in different chunks, ChunkCount = %d", w.ChunkCount())
	}
	if got := w.Get(-1, -1); got.Type != PiecePawn {
		t.Errorf("Get(-1,-1) = %+v", got)
	}
}

func TestWorld_OccupancyInvariant(t *testing.T) {
	w := NewWorld()
	rng := rand.New(rand.NewSource(42))
	expected := make(map[Position]PieceType)

	for i := 0; i < 5000; i++ {
		x := int32(rng.Intn(400) - 200)
		y := int32(rng.Intn(400) - 200)
		pt := PieceType(rng.Intn(7))
		w.Set(x, y, pt, OwnerID(rng.Intn(3)))
		if pt == PieceEmpty {
			delete(expected, Position{x, y})
		} else {
			expected[Position{x, y}] = pt
		}
	}

	all := w.QueryRect(-1000, -1000, 1000, 1000)
	if len(all) != len(expected) {
		t.Fatalf("QueryRect returned %d pieces, want %d", len(all), len(expected))
	}
	seen := make(map[Position]bool)
	for _, p := range all {
		if seen[p.Pos()] {
			t.Fatalf("duplicate record at %v", p.Pos())
		}
		seen[p.Pos()] = true
		if expected[p.Pos()] != p.Type {
			t.Errorf("at %v got %v want %v", p.Pos(), p.Type, expected[p.Pos()])
		}
	}
	if w.Len() != len(expected) {
		t.Errorf("Len = %d, want %d", w.Len(), len(expected))
	}

	// Очищаем все и проверяем, что чанки не утекли
	for pos := range expected {
		w.Set(pos.X, pos.Y, PieceEmpty, 0)
	}
	if w.ChunkCount() != 0 || w.Len() != 0 {
		t.Errorf("after clearing everything: chunks=%d len=%d", w.ChunkCount(), w.Len())
	}
}

func TestWorld_QueryRectExactBounds(t *testing.T) {
	w := NewWorld()
	w.Set(10, 10, PiecePawn, 0)
	w.Set(11, 10, PiecePawn, 0)
	w.Set(-64, 5, PieceRook, 0)
	w.Set(1<<20, 1<<20, PieceQueen, 0)

	got := w.QueryRect(10, 10, 10, 10)
	if len(got) != 1 || got[0].X != 10 {
		t.Errorf("single-square query = %+v", got)
	}

	got = w.QueryRect(-64, 0, 11, 10)
	if len(got) != 3 {
		t.Errorf("expected 3 pieces, got %d", len(got))
	}

	// Огромный прямоугольник обходит только существующие чанки
	got = w.QueryRect(-MaxCoord, -MaxCoord, MaxCoord, MaxCoord)
	if len(got) != 4 {
		t.Errorf("full query returned %d, want 4", len(got))
	}

	if got := w.QueryRect(5, 5, 4, 4); got != nil {
		t.Errorf("inverted rect should be empty, got %v", got)
	}
}

func TestWorld_QueryRadius(t *testing.T) {
	w := NewWorld()
	w.Set(0, 0, PieceKing, 1)
	w.Set(3, 4, PiecePawn, 0)  // ровно 5
	w.Set(4, 4, PiecePawn, 0)  // ~5.66
	w.Set(-5, 0, PiecePawn, 0) // ровно 5

	got := w.QueryRadius(0, 0, 5)
	if len(got) != 3 {
		t.Errorf("QueryRadius(0,0,5) returned %d pieces, want 3", len(got))
	}
	for _, p := range got {
		if p.X == 4 && p.Y == 4 {
			t.Error("(4,4) is outside radius 5")
		}
	}

	if got := w.QueryRadius(0, 0, -1); got != nil {
		t.Errorf("negative radius should return nil, got %v", got)
	}
}

func TestWorld_Remove(t *testing.T) {
	w := NewWorld()
	w.Set(1, 2, PieceKnight, 7)

	p := w.Remove(1, 2)
	if p.Type != PieceKnight || p.Owner != 7 {
		t.Errorf("Remove returned %+v", p)
	}
	if !w.Get(1, 2).IsEmpty() {
		t.Error("square still occupied after Remove")
	}
}
