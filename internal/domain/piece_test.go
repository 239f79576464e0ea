package domain

import "testing"

func TestParsePieceType(t *testing.T) {
	tests := []struct {
		input    string
		expected PieceType
	}{
		{"KING", PieceKing},
		{"king", PieceKing},
		{" Rook ", PieceRook},
		{"pawn", PiecePawn},
		{"dragon", PieceEmpty},
		{"", PieceEmpty},
	}

	for _, tt := range tests {
		if got := ParsePieceType(tt.input); got != tt.expected {
			t.Errorf("ParsePieceType(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestPieceType_String(t *testing.T) {
	tests := []struct {
		piece    PieceType
		expected string
	}{
		{PieceQueen, "QUEEN"},
		{PieceEmpty, "EMPTY"},
		{PieceType(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.piece.String(); got != tt.expected {
			t.Errorf("PieceType(%d).String() = %q, want %q", tt.piece, got, tt.expected)
		}
	}
}

func TestOwnerID_Kind(t *testing.T) {
	tests := []struct {
		id   OwnerID
		want OwnerKind
	}{
		{0, KindNeutral},
		{1, KindHuman},
		{65531, KindHuman},
		{65534, KindSystem},
		{70000, KindInvalid},
		{100000, KindAgent},
		{899999, KindAgent},
		{900000, KindEscort},
		{1000000, KindInvalid},
	}

	for _, tt := range tests {
		if got := tt.id.Kind(); got != tt.want {
			t.Errorf("OwnerID(%d).Kind() = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestRangeFor(t *testing.T) {
	tests := []struct {
		kills int
		want  int
	}{
		{-3, RangeBase},
		{0, RangeBase},
		{1, RangeBase + RangePerKill},
		{19, RangeCap},
		{1000, RangeCap},
	}

	for _, tt := range tests {
		if got := RangeFor(tt.kills); got != tt.want {
			t.Errorf("RangeFor(%d) = %d, want %d", tt.kills, got, tt.want)
		}
	}
}

func TestNotation(t *testing.T) {
	tests := []struct {
		name    string
		piece   PieceType
		from    Position
		to      Position
		capture bool
		want    string
	}{
		{"pawn quiet", PiecePawn, Position{4, 60}, Position{4, 59}, false, "e4-e5"},
		{"knight capture", PieceKnight, Position{1, 63}, Position{2, 61}, true, "Nb1xc3"},
		{"wide column", PieceRook, Position{26, 0}, Position{52, 0}, false, "R2a64-3a64"},
		{"negative column", PieceKing, Position{-1, 64}, Position{0, 64}, false, "K-a0-a0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Notation(tt.piece, tt.from, tt.to, tt.capture); got != tt.want {
				t.Errorf("Notation() = %q, want %q", got, tt.want)
			}
		})
	}
}
