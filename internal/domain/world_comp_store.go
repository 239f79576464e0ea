package domain

// Get возвращает фигуру в клетке. Для пустой клетки - Empty/neutral.
func (w *World) Get(x, y int32) Piece {
	ch, ok := w.chunks[ChunkOf(x, y)]
	if !ok {
		return Piece{X: x, Y: y}
	}
	c, ok := ch.cells[localIndex(x, y)]
	if !ok {
		return Piece{X: x, Y: y}
	}
	return Piece{X: x, Y: y, Type: c.Type, Owner: c.Owner}
}

// Set записывает фигуру в клетку. PieceEmpty очищает клетку,
// и если чанк опустел - он удаляется в этом же вызове.
func (w *World) Set(x, y int32, t PieceType, owner OwnerID) {
	key := ChunkOf(x, y)
	idx := localIndex(x, y)
	ch, ok := w.chunks[key]

	if t == PieceEmpty {
		if !ok {
			return
		}
		old, had := ch.cells[idx]
		if !had {
			return
		}
		delete(ch.cells, idx)
		w.count--
		if old.Owner.IsNeutral() {
			w.neutral--
		}
		if len(ch.cells) == 0 {
			delete(w.chunks, key)
		}
		return
	}

	if !ok {
		ch = &chunk{cells: make(map[uint16]cell, 4)}
		w.chunks[key] = ch
	}
	old, had := ch.cells[idx]
	switch {
	case !had:
		w.count++
	case old.Owner.IsNeutral():
		w.neutral--
	}
	if owner.IsNeutral() {
		w.neutral++
	}
	ch.cells[idx] = cell{Type: t, Owner: owner}
}

// Remove - сокращение для Set(x, y, PieceEmpty, 0). Возвращает то, что было в клетке.
func (w *World) Remove(x, y int32) Piece {
	p := w.Get(x, y)
	w.Set(x, y, PieceEmpty, NeutralOwner)
	return p
}

// ForEach обходит все фигуры. Если fn вернет false - обход прекращается.
// Мутировать мир внутри fn нельзя.
func (w *World) ForEach(fn func(p Piece) bool) {
	for key, ch := range w.chunks {
		if !eachInChunk(key, ch, fn) {
			return
		}
	}
}

func eachInChunk(key ChunkKey, ch *chunk, fn func(p Piece) bool) bool {
	baseX := key.CX * ChunkSize
	baseY := key.CY * ChunkSize
	for idx, c := range ch.cells {
		p := Piece{
			X:     baseX + int32(idx%ChunkSize),
			Y:     baseY + int32(idx/ChunkSize),
			Type:  c.Type,
			Owner: c.Owner,
		}
		if !fn(p) {
			return false
		}
	}
	return true
}
