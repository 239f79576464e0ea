package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/infrastructure/storage"
	"github.com/updogjp/infinichess/pkg/logger"
	"github.com/updogjp/infinichess/pkg/worldgen"
)

// Load поднимает мир и таблицу лидеров из хранилища.
// Если сохранения нет - мир генерируется заново.
func (s *GameService) Load() error {
	var pieces []domain.Piece
	if s.store != nil {
		loaded, err := s.store.LoadWorld()
		switch {
		case err == nil:
			pieces = loaded
		case errors.Is(err, storage.ErrNoData):
		default:
			return fmt.Errorf("load world: %w", err)
		}
	}

	generated := pieces == nil
	if generated {
		pieces = worldgen.New(s.cfg.Seed).
			WithDensity(s.cfg.GenDensity).
			WithRadius(s.cfg.GenRadius).
			WithBoard(s.cfg.BoardSize).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.World.Clear()
	for _, p := range pieces {
		if !s.Rules.Contains(p.Pos()) {
			continue
		}
		s.World.Set(p.X, p.Y, p.Type, domain.NeutralOwner)
	}
	s.evictNeutralLocked()

	if s.store != nil {
		players, err := s.store.LoadPlayers()
		switch {
		case err == nil:
			for _, p := range players {
				if !p.ID.IsHuman() {
					continue
				}
				s.offline[p.ID] = offlineEntry{name: p.Name, color: p.Color, kills: p.Kills}
			}
		case errors.Is(err, storage.ErrNoData):
		default:
			logger.Log.WithError(err).Warn("Player records are unreadable, starting with an empty leaderboard")
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"pieces":    s.World.Len(),
		"chunks":    s.World.ChunkCount(),
		"generated": generated,
		"players":   len(s.offline),
	}).Info("World loaded")
	return nil
}

// Save пишет нейтральные фигуры и таблицу лидеров. Диск - вне глобальной блокировки.
func (s *GameService) Save() error {
	if s.store == nil {
		return nil
	}

	s.mu.Lock()
	pieces := make([]domain.Piece, 0, s.World.Len())
	s.World.ForEach(func(p domain.Piece) bool {
		if p.Owner.IsNeutral() {
			pieces = append(pieces, p)
		}
		return true
	})
	players := s.playerRecordsLocked()
	s.mu.Unlock()

	if err := s.store.SaveWorld(pieces); err != nil {
		return fmt.Errorf("save world: %w", err)
	}
	if err := s.store.SavePlayers(players); err != nil {
		return fmt.Errorf("save players: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"pieces":  len(pieces),
		"players": len(players),
	}).Info("World saved")
	return nil
}

// playerRecordsLocked - люди с очками: подключенные, ожидающие и поднятые с диска
func (s *GameService) playerRecordsLocked() []storage.PlayerRecord {
	var out []storage.PlayerRecord
	seen := make(map[domain.OwnerID]struct{})

	for id, kills := range s.scores {
		if !id.IsHuman() || kills <= 0 {
			continue
		}
		name, ok := s.nameLocked(id)
		if !ok {
			continue
		}
		var color domain.Color
		if a, ok := s.actors[id]; ok {
			color = a.Color
		} else if rec, ok := s.Sessions.Lookup(id); ok {
			color = rec.Color
		}
		seen[id] = struct{}{}
		out = append(out, storage.PlayerRecord{ID: id, Kills: kills, Name: name, Color: color})
	}
	for id, e := range s.offline {
		if _, dup := seen[id]; dup || e.kills <= 0 {
			continue
		}
		out = append(out, storage.PlayerRecord{ID: id, Kills: e.kills, Name: e.name, Color: e.color})
	}
	return out
}
