package engine

import (
	"sort"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/api"
)

// UpdateCamera обновляет вьюпорт и, если роутер разрешил, шлет полный снапшот
func (s *GameService) UpdateCamera(id domain.OwnerID, cam domain.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[id]
	if !ok || !a.Verified {
		return
	}
	if s.Router.UpdateCamera(id, cam, s.now()) {
		s.sendSnapshotLocked(id, domain.Position{X: cam.X, Y: cam.Y})
	}
}

// jumpCameraLocked - камера прыгает на клетку (спавн, resume). Масштаб сохраняется.
func (s *GameService) jumpCameraLocked(id domain.OwnerID, pos domain.Position) {
	scale := 1.0
	if cam, ok := s.Router.Camera(id); ok {
		scale = cam.Scale
	}
	if s.Router.JumpCamera(id, domain.Camera{X: pos.X, Y: pos.Y, Scale: scale}, s.now()) {
		s.sendSnapshotLocked(id, pos)
	}
}

// sendSnapshotLocked отправляет ближайшие к center фигуры, не больше SnapshotMaxCount
func (s *GameService) sendSnapshotLocked(id domain.OwnerID, center domain.Position) {
	s.Router.SendTo(id, api.EncodeSnapshot(id, s.boardMode(), s.BuildSnapshot(center)))
}

// BuildSnapshot - фигуры в радиусе SnapshotRadius, ближние первыми. Вызывать под блокировкой.
func (s *GameService) BuildSnapshot(center domain.Position) []domain.Piece {
	pieces := s.World.QueryRadius(center.X, center.Y, domain.SnapshotRadius)

	sort.Slice(pieces, func(i, j int) bool {
		di := pieces[i].Pos().DistanceSquaredTo(center)
		dj := pieces[j].Pos().DistanceSquaredTo(center)
		if di != dj {
			return di < dj
		}
		// Стабильный порядок для одинаковых расстояний
		if pieces[i].Y != pieces[j].Y {
			return pieces[i].Y < pieces[j].Y
		}
		return pieces[i].X < pieces[j].X
	})

	if len(pieces) > domain.SnapshotMaxCount {
		pieces = pieces[:domain.SnapshotMaxCount]
	}
	return pieces
}

func (s *GameService) boardMode() uint16 {
	if s.cfg.BoardSize > 0 {
		return api.ModeBoard
	}
	return api.ModeInfinite
}

// setLocked пишет клетку и рассылает set тем, кто ее видит
func (s *GameService) setLocked(pos domain.Position, t domain.PieceType, owner domain.OwnerID) {
	s.World.Set(pos.X, pos.Y, t, owner)
	s.Router.Deliver(pos, api.EncodeSet(s.World.Get(pos.X, pos.Y)))
}
