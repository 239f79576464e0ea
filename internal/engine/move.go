package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
)

// RequestMove - единая точка входа для ходов людей и агентов.
// Неизвестный, выбитый или спешащий владелец - ход отбрасывается без событий.
func (s *GameService) RequestMove(actor domain.OwnerID, from, to domain.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	switch {
	case actor.IsHuman():
		a, ok := s.actors[actor]
		if !ok || !a.Verified || !a.Alive() {
			return false
		}
		if !a.LastMoveAt.IsZero() && now.Sub(a.LastMoveAt) < s.cfg.minMoveInterval() {
			return false
		}
		if !s.moveLocked(from, to, actor) {
			return false
		}
		a.LastMoveAt = now
		return true

	case actor.IsAutonomous():
		ag, ok := s.autonomous[actor]
		if !ok {
			return false
		}
		if !ag.lastMove.IsZero() && now.Sub(ag.lastMove) < s.cfg.AgentMoveCooldown {
			return false
		}
		if !s.moveLocked(from, to, actor) {
			return false
		}
		ag.lastMove = now
		return true
	}
	return false
}

// Move применяет ход без проверки кулдауна. Владение и легальность проверяются заново:
// нарушение - полный no-op.
func (s *GameService) Move(from, to domain.Position, actor domain.OwnerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(from, to, actor)
}

func (s *GameService) moveLocked(from, to domain.Position, actor domain.OwnerID) bool {
	src := s.World.Get(from.X, from.Y)
	if src.IsEmpty() || src.Owner != actor {
		return false
	}
	if !s.Rules.IsLegal(from, to, s.World, actor, s.scores[actor]) {
		return false
	}
	dst := s.World.Get(to.X, to.Y)
	capture := !dst.IsEmpty()

	// 1. Перенос
	s.World.Set(from.X, from.Y, domain.PieceEmpty, domain.NeutralOwner)
	s.World.Set(to.X, to.Y, src.Type, actor)

	// 2. Событие хода наблюдателям обоих концов
	s.Router.DeliverMove(from, to, api.EncodeMove(from, to, actor))

	// Основная фигура человека едет вместе с ним
	if a, ok := s.actors[actor]; ok && a.HasPiece && a.Primary == from {
		a.Primary = to
	}

	if logger.Log.IsLevelEnabled(logrus.DebugLevel) {
		logger.Log.WithFields(logrus.Fields{
			"actor": actor,
			"move":  domain.Notation(src.Type, from, to, capture),
		}).Debug("Move")
	}

	if !capture {
		return true
	}

	// 3. Нейтральная фигура переходит к захватчику на освободившуюся клетку
	if dst.Owner.IsNeutral() {
		s.setLocked(from, dst.Type, actor)
	} else {
		// 4. Выбивание соперника
		s.onCapturedLocked(dst, actor)
	}

	// 5. Очки и эволюция
	s.scores[actor]++
	s.boardDirty = true
	s.evolveLocked(to, actor)
	return true
}

// onCapturedLocked решает, выбит ли владелец съеденной фигуры
func (s *GameService) onCapturedLocked(victim domain.Piece, by domain.OwnerID) {
	owner := victim.Owner
	if !owner.IsHuman() {
		return // Агента контроллер уберет сам, когда заметит пропажу фигуры
	}

	fields := logrus.Fields{"victim": owner, "by": by, "piece": victim.Type.String()}

	if a, ok := s.actors[owner]; ok {
		if victim.Type != domain.PieceKing && !(a.HasPiece && a.Primary == victim.Pos()) {
			return
		}
		a.Dead = true
		a.HasPiece = false
		a.RespawnAt = s.now().Add(s.cfg.RespawnDelay)
		a.SessionToken = nil
		s.eliminateLocked(owner)
		logger.Log.WithFields(fields).Info("Actor eliminated")
		return
	}

	// Игрок оффлайн, ждет resume
	if rec, ok := s.Sessions.Lookup(owner); ok {
		if victim.Type != domain.PieceKing && rec.Pos != victim.Pos() {
			return
		}
		s.Sessions.Drop(owner)
		s.eliminateLocked(owner)
		delete(s.scores, owner)
		logger.Log.WithFields(fields).Info("Pending actor eliminated")
	}
}

func (s *GameService) eliminateLocked(owner domain.OwnerID) {
	s.scores[owner] = 0
	s.boardDirty = true
	s.queueNeutralize(owner)
}

// evolveLocked повышает фигуру на to, если счет ровно достиг порога
func (s *GameService) evolveLocked(to domain.Position, actor domain.OwnerID) {
	next, ok := s.cfg.tierAt(s.scores[actor])
	if !ok {
		return
	}
	p := s.World.Get(to.X, to.Y)
	if p.Owner != actor || p.Type == domain.PieceKing || next <= p.Type || next == domain.PieceKing {
		return
	}

	s.setLocked(to, next, actor)

	logger.Log.WithFields(logrus.Fields{
		"actor": actor,
		"from":  p.Type.String(),
		"to":    next.String(),
		"kills": s.scores[actor],
	}).Info("Piece evolved")
}

// Kills - текущий счет владельца
func (s *GameService) Kills(owner domain.OwnerID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores[owner]
}

// PieceAt - содержимое клетки
func (s *GameService) PieceAt(pos domain.Position) domain.Piece {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.World.Get(pos.X, pos.Y)
}

// LegalMoves - ходы фигуры owner с клетки from. Пусто, если фигура не его.
func (s *GameService) LegalMoves(owner domain.OwnerID, from domain.Position) []domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.World.Get(from.X, from.Y)
	if p.IsEmpty() || p.Owner != owner {
		return nil
	}
	return s.Rules.Generate(from.X, from.Y, s.World, owner, s.scores[owner])
}
