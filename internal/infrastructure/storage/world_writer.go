package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/updogjp/infinichess/internal/domain"
)

const (
	WorldMagic   string = `ICWD` // 4 байта
	PlayersMagic string = `ICPL`
	Version1     uint32 = 1

	WorldFile   = "world.dat"
	PlayersFile = "players.dat"
)

// ErrNoData - файла еще нет (первый запуск)
var ErrNoData = errors.New("no saved data")

// FileHeader - точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком: только массивы и числа.
type FileHeader struct {
	Magic   [4]byte
	Version uint32
	Count   uint32
}

// PieceRecord - одна нейтральная фигура в world.dat
type PieceRecord struct {
	X    int32
	Y    int32
	Type int32
}

// PlayerHeader - фиксированная часть записи игрока, за ней идет имя
type PlayerHeader struct {
	ID      uint32
	Kills   uint32
	R, G, B uint8
	NameLen uint8
}

// PlayerRecord - сохраненная строка таблицы лидеров
type PlayerRecord struct {
	ID    domain.OwnerID
	Kills int
	Name  string
	Color domain.Color
}

// Store читает и пишет снимки мира и игроков в каталог Dir
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &Store{Dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name)
}

// SaveWorld сохраняет нейтральные фигуры. Фигуры игроков и агентов не пишутся.
func (s *Store) SaveWorld(pieces []domain.Piece) error {
	return s.atomicWrite(WorldFile, func(w io.Writer) error {
		return writeWorld(w, pieces)
	})
}

// SavePlayers сохраняет таблицу лидеров
func (s *Store) SavePlayers(players []PlayerRecord) error {
	return s.atomicWrite(PlayersFile, func(w io.Writer) error {
		return writePlayers(w, players)
	})
}

// atomicWrite пишет во временный файл рядом и переименовывает поверх старого
func (s *Store) atomicWrite(name string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(s.Dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name()) // после Rename это no-op

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(name))
}

func newHeader(magic string, count int) FileHeader {
	h := FileHeader{Version: Version1, Count: uint32(count)}
	copy(h.Magic[:], magic) // Копируем строку в массив [4]byte
	return h
}

func writeWorld(w io.Writer, pieces []domain.Piece) error {
	neutral := 0
	for _, p := range pieces {
		if p.Owner.IsNeutral() && !p.IsEmpty() {
			neutral++
		}
	}

	header := newHeader(WorldMagic, neutral)
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range pieces {
		if !p.Owner.IsNeutral() || p.IsEmpty() {
			continue
		}
		rec := PieceRecord{X: p.X, Y: p.Y, Type: int32(p.Type)}
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return err
		}
	}
	return nil
}

func writePlayers(w io.Writer, players []PlayerRecord) error {
	header := newHeader(PlayersMagic, len(players))
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range players {
		name := []byte(p.Name)
		if len(name) > 255 {
			return fmt.Errorf("name too long: %d", len(name))
		}
		kills := p.Kills
		if kills < 0 {
			kills = 0
		}
		ph := PlayerHeader{
			ID:      uint32(p.ID),
			Kills:   uint32(kills),
			R:       p.Color.R,
			G:       p.Color.G,
			B:       p.Color.B,
			NameLen: uint8(len(name)),
		}
		if err := binary.Write(w, binary.LittleEndian, &ph); err != nil {
			return err
		}
		if _, err := w.Write(name); err != nil {
			return err
		}
	}
	return nil
}
