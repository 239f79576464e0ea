package domain

// ChunkKey - координаты чанка (клетка / ChunkSize с округлением вниз)
type ChunkKey struct {
	CX int32
	CY int32
}

// cell - то, что хранится в клетке чанка. Пустые клетки не хранятся вообще.
type cell struct {
	Type  PieceType
	Owner OwnerID
}

// chunk - квадрат ChunkSize x ChunkSize. Ключ - локальный индекс ly*ChunkSize+lx.
type chunk struct {
	cells map[uint16]cell
}

// World - разреженное хранилище фигур, разбитое на чанки.
// Никакой синхронизации внутри нет: мутации сериализует вызывающий (движок).
type World struct {
	chunks  map[ChunkKey]*chunk
	count   int
	neutral int
}

func NewWorld() *World {
	return &World{
		chunks: make(map[ChunkKey]*chunk),
	}
}

// Len - количество фигур на доске
func (w *World) Len() int {
	return w.count
}

// NeutralLen - сколько из них ничьи
func (w *World) NeutralLen() int {
	return w.neutral
}

// ChunkCount - количество непустых чанков
func (w *World) ChunkCount() int {
	return len(w.chunks)
}

// Clear удаляет все фигуры
func (w *World) Clear() {
	w.chunks = make(map[ChunkKey]*chunk)
	w.count = 0
	w.neutral = 0
}

// floorDiv - деление с округлением к минус бесконечности (для отрицательных координат)
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ChunkOf возвращает ключ чанка для клетки
func ChunkOf(x, y int32) ChunkKey {
	return ChunkKey{CX: floorDiv(x, ChunkSize), CY: floorDiv(y, ChunkSize)}
}

func localIndex(x, y int32) uint16 {
	lx := x - floorDiv(x, ChunkSize)*ChunkSize
	ly := y - floorDiv(y, ChunkSize)*ChunkSize
	return uint16(ly*ChunkSize + lx)
}
