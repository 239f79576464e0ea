package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/updogjp/infinichess/internal/domain"
)

// Защита от битого заголовка: не аллоцируем гигабайты по мусорному Count
const maxRecords = 1 << 24

// LoadWorld читает world.dat. Если файла нет - ErrNoData.
func (s *Store) LoadWorld() ([]domain.Piece, error) {
	f, err := s.open(WorldFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readWorld(bufio.NewReader(f))
}

// LoadPlayers читает players.dat. Если файла нет - ErrNoData.
func (s *Store) LoadPlayers() ([]PlayerRecord, error) {
	f, err := s.open(PlayersFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readPlayers(bufio.NewReader(f))
}

func (s *Store) open(name string) (*os.File, error) {
	f, err := os.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	return f, err
}

// ReadWorldFile читает world.dat по произвольному пути (для инструментов)
func ReadWorldFile(path string) ([]domain.Piece, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readWorld(bufio.NewReader(f))
}

func readHeader(r io.Reader, magic string) (FileHeader, error) {
	// 1. Читаем заголовок целиком
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return header, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != magic {
		return header, fmt.Errorf("invalid magic %q", header.Magic[:])
	}
	if header.Version != Version1 {
		return header, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.Count > maxRecords {
		return header, fmt.Errorf("record count too large: %d", header.Count)
	}
	return header, nil
}

func readWorld(r io.Reader) ([]domain.Piece, error) {
	header, err := readHeader(r, WorldMagic)
	if err != nil {
		return nil, err
	}

	pieces := make([]domain.Piece, 0, header.Count)
	for i := 0; i < int(header.Count); i++ {
		var rec PieceRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("piece %d: %w", i, err)
		}
		if rec.Type <= int32(domain.PieceEmpty) || rec.Type > int32(domain.PieceKing) {
			return nil, fmt.Errorf("piece %d: bad type %d", i, rec.Type)
		}
		pieces = append(pieces, domain.Piece{X: rec.X, Y: rec.Y, Type: domain.PieceType(rec.Type), Owner: domain.NeutralOwner})
	}
	return pieces, nil
}

func readPlayers(r io.Reader) ([]PlayerRecord, error) {
	header, err := readHeader(r, PlayersMagic)
	if err != nil {
		return nil, err
	}

	players := make([]PlayerRecord, 0, header.Count)
	for i := 0; i < int(header.Count); i++ {
		var ph PlayerHeader
		if err := binary.Read(r, binary.LittleEndian, &ph); err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}

		name := make([]byte, ph.NameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("player %d name: %w", i, err)
		}

		players = append(players, PlayerRecord{
			ID:    domain.OwnerID(ph.ID),
			Kills: int(ph.Kills),
			Name:  string(name),
			Color: domain.Color{R: ph.R, G: ph.G, B: ph.B},
		})
	}
	return players, nil
}
