package engine

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/logger"
)

// evictNeutralLocked держит число ничьих фигур в пределах MaxNeutralPieces.
// Лишние снимаются начиная с самых далеких от людей, через setLocked: наблюдатели получают set.
func (s *GameService) evictNeutralLocked() int {
	limit := s.cfg.MaxNeutralPieces
	excess := s.World.NeutralLen() - limit
	if limit <= 0 || excess <= 0 {
		return 0
	}

	anchors := s.humanAnchorsLocked()

	type candidate struct {
		pos  domain.Position
		dist int64
	}
	cands := make([]candidate, 0, s.World.NeutralLen())
	s.World.ForEach(func(p domain.Piece) bool {
		if p.Owner.IsNeutral() {
			cands = append(cands, candidate{pos: p.Pos(), dist: nearestSquared(p.Pos(), anchors)})
		}
		return true
	})

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist > cands[j].dist
		}
		if cands[i].pos.Y != cands[j].pos.Y {
			return cands[i].pos.Y < cands[j].pos.Y
		}
		return cands[i].pos.X < cands[j].pos.X
	})

	excess = min(excess, len(cands))
	for _, c := range cands[:excess] {
		s.setLocked(c.pos, domain.PieceEmpty, domain.NeutralOwner)
	}

	logger.Log.WithFields(logrus.Fields{
		"evicted": excess,
		"limit":   limit,
	}).Info("Neutral pieces evicted")
	return excess
}

// humanAnchorsLocked - клетки людей на доске (живых и ожидающих resume).
// Никого нет - центр доски или начало координат.
func (s *GameService) humanAnchorsLocked() []domain.Position {
	var out []domain.Position
	for _, a := range s.actors {
		if a.Alive() {
			out = append(out, a.Primary)
		}
	}
	for _, rec := range s.Sessions.Records() {
		out = append(out, rec.Pos)
	}
	if len(out) == 0 {
		if s.cfg.BoardSize > 0 {
			return []domain.Position{{X: s.cfg.BoardSize / 2, Y: s.cfg.BoardSize / 2}}
		}
		return []domain.Position{{}}
	}
	return out
}

func nearestSquared(pos domain.Position, anchors []domain.Position) int64 {
	best := int64(-1)
	for _, a := range anchors {
		if d := pos.DistanceSquaredTo(a); best < 0 || d < best {
			best = d
		}
	}
	return best
}
