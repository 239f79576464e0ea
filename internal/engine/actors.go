package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/session"
	"github.com/updogjp/infinichess/internal/systems"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
	"github.com/updogjp/infinichess/pkg/utils"
)

// Connect регистрирует новое соединение: выделяет ID и личный канал исходящих фреймов
func (s *GameService) Connect() (domain.OwnerID, <-chan []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.allocateHumanID()
	if !ok {
		return 0, nil, ErrServerFull
	}
	// Старая оффлайн-запись с этим ID больше не наша
	delete(s.offline, id)

	a := &domain.Actor{
		ID:       id,
		Name:     api.FallbackName(id),
		Piece:    s.cfg.DefaultPiece,
		Verified: !s.cfg.RequireVerification,
	}
	s.actors[id] = a
	s.boardDirty = true
	ch := s.Router.Register(id)

	s.Router.SendTo(id, s.leaderboardFrame())

	logger.Log.WithFields(logrus.Fields{
		"actor":    id,
		"verified": a.Verified,
	}).Info("Actor connected")
	return id, ch, nil
}

// allocateHumanID ищет свободный ID, пропуская живых, ожидающих и стоящих в очереди нейтрализации
func (s *GameService) allocateHumanID() (domain.OwnerID, bool) {
	total := int(domain.HumanMax - domain.HumanMin + 1)
	for i := 0; i < total; i++ {
		id := s.nextHuman
		s.nextHuman++
		if s.nextHuman > domain.HumanMax {
			s.nextHuman = domain.HumanMin
		}

		if _, busy := s.actors[id]; busy {
			continue
		}
		if _, queued := s.neutralSet[id]; queued {
			continue
		}
		if s.Sessions.HasID(id) {
			continue
		}
		return id, true
	}
	return 0, false
}

// Disconnect - соединение закрыто. Живой игрок уходит в ожидание, остальные чистятся сразу.
func (s *GameService) Disconnect(id domain.OwnerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Router.Unregister(id)
	delete(s.chatLimiters, id)

	a, ok := s.actors[id]
	if !ok {
		return
	}
	delete(s.actors, id)
	s.boardDirty = true

	fields := logrus.Fields{"actor": id, "name": a.Name}

	if a.Alive() && len(a.SessionToken) == utils.TokenSize {
		tok, _ := session.TokenFromBytes(a.SessionToken)
		rec := s.Sessions.Park(session.Record{
			Token:  tok,
			ID:     id,
			Name:   a.Name,
			Color:  a.Color,
			Piece:  s.World.Get(a.Primary.X, a.Primary.Y).Type,
			Choice: a.Piece,
			Pos:    a.Primary,
			Kills:  s.scores[id],
		}, s.now())
		logger.Log.WithFields(fields).WithField("expires", rec.ExpiresAt).Info("Actor parked")
		return
	}

	// Мертвый или так и не заспавнившийся: фигур может и не быть, но поглощенные надо отдать
	delete(s.scores, id)
	if a.HasPiece || a.Dead {
		s.queueNeutralize(id)
	}
	logger.Log.WithFields(fields).Info("Actor disconnected")
}

// SetIdentity запоминает имя/цвет/фигуру и спавнит, если можно
func (s *GameService) SetIdentity(id domain.OwnerID, msg api.IdentityMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[id]
	if !ok {
		return
	}

	// Пустое или запрещенное имя заменяется на PlayerN
	a.Name = msg.Name
	if a.Name == "" || s.filter.Blocked(a.Name) {
		a.Name = api.FallbackName(id)
	}
	a.Color = msg.Color
	if msg.Piece != domain.PieceEmpty {
		a.Piece = msg.Piece
	}
	a.Identified = true
	s.boardDirty = true

	if a.Alive() {
		return // Живой игрок только переименовался
	}
	s.trySpawnLocked(a)
}

// Verify проверяет токен внешним Verifier и, если все хорошо, спавнит ожидающего игрока
func (s *GameService) Verify(ctx context.Context, id domain.OwnerID, token string) bool {
	s.mu.Lock()
	a, ok := s.actors[id]
	already := ok && a.Verified
	verifier := s.verifier
	s.mu.Unlock()

	if !ok {
		return false
	}
	if already {
		return true
	}
	if verifier == nil {
		return false
	}

	// Сетевой вызов - без глобальной блокировки
	passed, err := verifier.Verify(ctx, token)
	if err != nil {
		logger.Log.WithField("actor", id).WithError(err).Warn("Verification error")
		return false
	}
	if !passed {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Соединение могло закрыться, пока шла проверка
	a, ok = s.actors[id]
	if !ok {
		return false
	}
	a.Verified = true
	logger.Log.WithField("actor", id).Info("Actor verified")

	if a.Identified && !a.Alive() {
		s.trySpawnLocked(a)
	}
	return true
}

// trySpawnLocked ставит фигуру игрока на доску, если он верифицирован и респаун разрешен
func (s *GameService) trySpawnLocked(a *domain.Actor) bool {
	now := s.now()
	if !a.Verified || !a.CanRespawn(now) {
		return false
	}
	// Остатки прошлой жизни должны уйти раньше, чем появится новая фигура
	if _, queued := s.neutralSet[a.ID]; queued {
		s.sweepNeutralizeLocked()
	}

	pos, ok := s.Rules.FindSpawn(s.World, s.rng, systems.SpawnParams{
		Center:     s.spawnCenterLocked(),
		Radius:     s.cfg.SpawnRadius,
		KingBuffer: s.cfg.KingBuffer,
		Tries:      s.cfg.SpawnTries,
	})
	if !ok {
		logger.Log.WithField("actor", a.ID).Warn("No free square to spawn")
		return false
	}

	s.setLocked(pos, a.Piece, a.ID)

	a.HasPiece = true
	a.Dead = false
	a.Primary = pos
	a.SpawnedAt = now
	a.LastMoveAt = time.Time{}
	if _, ok := s.scores[a.ID]; !ok {
		s.scores[a.ID] = 0
	}
	s.boardDirty = true

	s.issueTokenLocked(a)
	s.jumpCameraLocked(a.ID, pos)

	logger.Log.WithFields(logrus.Fields{
		"actor": a.ID,
		"name":  a.Name,
		"piece": a.Piece.String(),
		"pos":   domain.SquareNotation(pos),
	}).Info("Actor spawned")
	return true
}

// spawnCenterLocked - случайный живой игрок или начало координат
func (s *GameService) spawnCenterLocked() domain.Position {
	if s.cfg.BoardSize > 0 {
		return domain.Position{X: s.cfg.BoardSize / 2, Y: s.cfg.BoardSize / 2}
	}
	var live []domain.Position
	for _, a := range s.actors {
		if a.Alive() {
			live = append(live, a.Primary)
		}
	}
	if len(live) == 0 {
		return domain.Position{}
	}
	return live[s.rng.Intn(len(live))]
}

// issueTokenLocked выдает новый токен продолжения и отправляет его клиенту
func (s *GameService) issueTokenLocked(a *domain.Actor) {
	a.SessionToken = utils.NewToken()
	s.Router.SendTo(a.ID, api.EncodeSessionToken(a.SessionToken))
}

// Resume восстанавливает ожидающую сессию на соединении connID.
// Возвращает ID, под которым соединение работает дальше.
func (s *GameService) Resume(connID domain.OwnerID, token [api.TokenLen]byte) domain.OwnerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[connID]
	if !ok {
		return connID
	}
	// Соединение, которое уже играет, не может подхватить чужую сессию
	if a.HasPiece || a.Dead {
		s.Router.SendTo(connID, api.EncodeResumeRejected())
		return connID
	}

	now := s.now()
	rec, ok := s.Sessions.Resume(session.Token(token), now)
	if !ok {
		s.Router.SendTo(connID, api.EncodeResumeRejected())
		logger.Log.WithField("actor", connID).Debug("Resume rejected")
		return connID
	}

	restored := &domain.Actor{
		ID:         rec.ID,
		Name:       rec.Name,
		Color:      rec.Color,
		Piece:      rec.Choice,
		Verified:   true,
		Identified: true,
	}

	delete(s.actors, connID)
	delete(s.chatLimiters, connID)
	s.actors[rec.ID] = restored
	s.Router.Rekey(connID, rec.ID)
	s.scores[rec.ID] = rec.Kills
	s.boardDirty = true

	p := s.World.Get(rec.Pos.X, rec.Pos.Y)
	if !p.IsEmpty() && p.Owner == rec.ID {
		restored.HasPiece = true
		restored.Primary = rec.Pos
	} else {
		// Фигуры нет: можно сразу переспавниться
		restored.Dead = true
		restored.RespawnAt = now
	}

	s.Router.SendTo(rec.ID, api.EncodeResumeOK(api.ResumeInfo{
		ID:    rec.ID,
		Pos:   rec.Pos,
		Kills: rec.Kills,
		Piece: rec.Piece,
		Name:  rec.Name,
		Color: rec.Color,
	}))
	if restored.HasPiece {
		s.issueTokenLocked(restored)
	}
	s.jumpCameraLocked(rec.ID, rec.Pos)

	logger.Log.WithFields(logrus.Fields{
		"conn":  connID,
		"actor": rec.ID,
		"alive": restored.HasPiece,
	}).Info("Session resumed")
	return rec.ID
}

// ActorView - копия состояния игрока для debug и агентов
type ActorView struct {
	domain.Actor
	Kills  int  `json:"kills"`
	Immune bool `json:"immune"`
}

// Actors возвращает снимок подключенных игроков
func (s *GameService) Actors() []ActorView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]ActorView, 0, len(s.actors))
	for _, a := range s.actors {
		v := ActorView{Actor: *a, Kills: s.scores[a.ID], Immune: a.Immune(now, s.cfg.SpawnImmunity)}
		v.SessionToken = nil
		out = append(out, v)
	}
	return out
}

// Online - сколько людей подключено
func (s *GameService) Online() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actors)
}
