package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/logger"
)

// HumanInfo - что контроллер агентов знает о человеке
type HumanInfo struct {
	ID     domain.OwnerID
	Pos    domain.Position
	Online bool
	Immune bool
	Kills  int
}

// Humans - люди с фигурой на доске: подключенные живые и ожидающие resume
func (s *GameService) Humans() []HumanInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]HumanInfo, 0, len(s.actors))
	for _, a := range s.actors {
		if !a.Alive() {
			continue
		}
		out = append(out, HumanInfo{
			ID:     a.ID,
			Pos:    a.Primary,
			Online: true,
			Immune: a.Immune(now, s.cfg.SpawnImmunity),
			Kills:  s.scores[a.ID],
		})
	}
	for _, rec := range s.Sessions.Records() {
		out = append(out, HumanInfo{ID: rec.ID, Pos: rec.Pos, Kills: s.scores[rec.ID]})
	}
	return out
}

// SpawnAutonomous ставит фигуру агента на ближайшую к near свободную клетку
func (s *GameService) SpawnAutonomous(id domain.OwnerID, name string, color domain.Color, piece domain.PieceType, near domain.Position, maxRing int32) (domain.Position, bool) {
	if !id.IsAutonomous() || !piece.Valid() {
		return domain.Position{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.autonomous[id]; exists {
		return domain.Position{}, false
	}
	if _, queued := s.neutralSet[id]; queued {
		s.sweepNeutralizeLocked()
	}
	pos, ok := s.Rules.FindFreeNear(s.World, near, maxRing)
	if !ok {
		return domain.Position{}, false
	}

	s.setLocked(pos, piece, id)
	s.autonomous[id] = &autonomous{name: name, color: color}
	s.scores[id] = 0
	return pos, true
}

// RemoveAutonomous снимает агента: его фигура на at убирается, поглощенные становятся нейтральными
func (s *GameService) RemoveAutonomous(id domain.OwnerID, at domain.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.autonomous[id]; !ok {
		return
	}
	delete(s.autonomous, id)
	if _, scored := s.scores[id]; scored {
		delete(s.scores, id)
		s.boardDirty = true
	}

	if p := s.World.Get(at.X, at.Y); p.Owner == id {
		s.setLocked(at, domain.PieceEmpty, domain.NeutralOwner)
	}
	s.queueNeutralize(id)

	logger.Log.WithFields(logrus.Fields{
		"agent": id,
		"pos":   domain.SquareNotation(at),
	}).Debug("Agent removed")
}

// Decide дает агенту посмотреть на мир под блокировкой и выбрать ход.
// choose вызывается только если фигура на from принадлежит id.
func (s *GameService) Decide(id domain.OwnerID, from domain.Position,
	choose func(w *domain.World, moves []domain.Position) (domain.Position, bool)) (domain.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.autonomous[id]; !ok {
		return domain.Position{}, false
	}
	p := s.World.Get(from.X, from.Y)
	if p.IsEmpty() || p.Owner != id {
		return domain.Position{}, false
	}
	moves := s.Rules.Generate(from.X, from.Y, s.World, id, s.scores[id])
	if len(moves) == 0 {
		return domain.Position{}, false
	}
	return choose(s.World, moves)
}

// AutonomousCount - сколько агентов зарегистрировано
func (s *GameService) AutonomousCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.autonomous)
}
