package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
)

// queueNeutralize ставит владельца в очередь. Повторная постановка - no-op.
func (s *GameService) queueNeutralize(owner domain.OwnerID) {
	if owner.IsNeutral() {
		return
	}
	if _, ok := s.neutralSet[owner]; ok {
		return
	}
	s.neutralSet[owner] = struct{}{}
	s.neutralQueue = append(s.neutralQueue, owner)
}

// Neutralize - внешний запрос (контроллер агентов убирает своих)
func (s *GameService) Neutralize(owner domain.OwnerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueNeutralize(owner)
}

// SweepNeutralize обрабатывает очередь: короли снимаются с доски, остальные фигуры
// становятся нейтральными. Один проход по миру на всю пачку владельцев.
// После прохода лишние ничьи фигуры выселяются (MaxNeutralPieces).
func (s *GameService) SweepNeutralize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.sweepNeutralizeLocked()
	s.evictNeutralLocked()
	return n
}

func (s *GameService) sweepNeutralizeLocked() int {
	if len(s.neutralQueue) == 0 {
		return 0
	}

	batch := s.neutralQueue
	owners := s.neutralSet
	s.neutralQueue = nil
	s.neutralSet = make(map[domain.OwnerID]struct{})

	// Сначала собираем, потом меняем: ForEach не любит мутаций во время обхода
	var affected []domain.Piece
	s.World.ForEach(func(p domain.Piece) bool {
		if _, ok := owners[p.Owner]; ok {
			affected = append(affected, p)
		}
		return true
	})

	for _, p := range affected {
		if p.Type == domain.PieceKing {
			s.setLocked(p.Pos(), domain.PieceEmpty, domain.NeutralOwner)
		} else {
			s.setLocked(p.Pos(), p.Type, domain.NeutralOwner)
		}
	}

	s.Router.Broadcast(api.EncodeNeutralize(batch))

	logger.Log.WithFields(logrus.Fields{
		"owners": len(batch),
		"pieces": len(affected),
	}).Debug("Neutralization sweep")
	return len(affected)
}

// SweepSessions забирает истекшие ожидающие сессии и отдает их фигуры миру
func (s *GameService) SweepSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := s.Sessions.Sweep(s.now())
	for _, rec := range expired {
		// Основная фигура (и король тоже) остается на доске нейтральной
		if p := s.World.Get(rec.Pos.X, rec.Pos.Y); !p.IsEmpty() && p.Owner == rec.ID {
			s.setLocked(rec.Pos, p.Type, domain.NeutralOwner)
		}
		s.queueNeutralize(rec.ID)
		delete(s.scores, rec.ID)
		s.boardDirty = true
		logger.Log.WithFields(logrus.Fields{
			"actor": rec.ID,
			"name":  rec.Name,
		}).Info("Session expired")
	}
	return len(expired)
}
