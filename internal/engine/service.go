package engine

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/engine/handlers"
	"github.com/updogjp/infinichess/internal/engine/handlers/actions"
	"github.com/updogjp/infinichess/internal/infrastructure/storage"
	"github.com/updogjp/infinichess/internal/network"
	"github.com/updogjp/infinichess/internal/session"
	"github.com/updogjp/infinichess/internal/systems"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
	"github.com/updogjp/infinichess/pkg/utils"
)

var ErrServerFull = errors.New("no free player ids")

// Persistence - куда сохраняется мир между перезапусками
type Persistence interface {
	LoadWorld() ([]domain.Piece, error)
	SaveWorld(pieces []domain.Piece) error
	LoadPlayers() ([]storage.PlayerRecord, error)
	SavePlayers(players []storage.PlayerRecord) error
}

// Verifier проверяет токен капчи. Вызывается вне глобальной блокировки.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// Deps - внешние компоненты. Создаются один раз при старте и передаются по ссылке.
// nil-поля заменяются значениями по умолчанию.
type Deps struct {
	Router   *network.Router
	Sessions *session.Registry
	Store    Persistence
	Verifier Verifier
	Filter   api.TextFilter
}

// autonomous - фигура агента или эскорта, зарегистрированная контроллером
type autonomous struct {
	name     string
	color    domain.Color
	lastMove time.Time
}

// offlineEntry - строка таблицы лидеров, поднятая из players.dat
type offlineEntry struct {
	name  string
	color domain.Color
	kills int
}

// GameService - авторитетное состояние мира. Все мутации идут под одной блокировкой mu.
type GameService struct {
	mu deadlock.Mutex

	cfg   Config
	World *domain.World
	Rules systems.Rules

	Router   *network.Router
	Sessions *session.Registry
	store    Persistence
	verifier Verifier
	filter   api.TextFilter

	actors     map[domain.OwnerID]*domain.Actor
	autonomous map[domain.OwnerID]*autonomous
	offline    map[domain.OwnerID]offlineEntry
	scores     map[domain.OwnerID]int

	// Очередь нейтрализации: порядок + дедупликация
	neutralQueue []domain.OwnerID
	neutralSet   map[domain.OwnerID]struct{}

	chatLimiters map[domain.OwnerID]*chatLimiter

	nextHuman  domain.OwnerID
	boardDirty bool

	rng *rand.Rand
	now func() time.Time

	handlers map[api.MessageKind]handlers.HandlerFunc
}

func NewService(cfg Config, deps Deps) *GameService {
	if deps.Router == nil {
		deps.Router = network.NewRouter(cfg.Router)
	}
	if deps.Sessions == nil {
		deps.Sessions = session.NewRegistry(cfg.SessionTTL)
	}
	if deps.Filter == nil {
		deps.Filter = api.NewWordFilter()
	}
	if len(cfg.Tiers) == 0 {
		cfg.Tiers = DefaultTiers
	}
	if !cfg.DefaultPiece.Valid() || cfg.DefaultPiece == domain.PieceEmpty {
		cfg.DefaultPiece = domain.PieceKing
	}

	// Детектор дедлоков дорогой, включаем только по флагу
	deadlock.Opts.Disable = !cfg.DebugLocks

	s := &GameService{
		cfg:          cfg,
		World:        domain.NewWorld(),
		Rules:        systems.NewRules(cfg.BoardSize),
		Router:       deps.Router,
		Sessions:     deps.Sessions,
		store:        deps.Store,
		verifier:     deps.Verifier,
		filter:       deps.Filter,
		actors:       make(map[domain.OwnerID]*domain.Actor),
		autonomous:   make(map[domain.OwnerID]*autonomous),
		offline:      make(map[domain.OwnerID]offlineEntry),
		scores:       make(map[domain.OwnerID]int),
		neutralSet:   make(map[domain.OwnerID]struct{}),
		chatLimiters: make(map[domain.OwnerID]*chatLimiter),
		nextHuman:    domain.HumanMin,
		rng:          utils.NewRand(cfg.Seed),
		now:          time.Now,
		handlers:     make(map[api.MessageKind]handlers.HandlerFunc),
	}

	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.handlers[api.KindMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[api.KindCamera] = handlers.WithPayload(actions.HandleCamera)
	s.handlers[api.KindIdentity] = handlers.WithPayload(actions.HandleIdentity)
	s.handlers[api.KindResume] = handlers.WithPayload(actions.HandleResume)
	s.handlers[api.KindChat] = handlers.WithPayload(actions.HandleChat)
	s.handlers[api.KindVerify] = handlers.WithPayload(actions.HandleVerify)
}

// SetClock подменяет часы (тесты)
func (s *GameService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Now - текущее время по часам движка
func (s *GameService) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func (s *GameService) Config() Config {
	return s.cfg
}

// Start запускает фоновое обслуживание и блокируется до отмены ctx
func (s *GameService) Start(ctx context.Context) {
	neutralize := time.NewTicker(s.cfg.NeutralizeEvery)
	sessions := time.NewTicker(s.cfg.SessionSweepEvery)
	board := time.NewTicker(s.cfg.LeaderboardEvery)
	defer neutralize.Stop()
	defer sessions.Stop()
	defer board.Stop()

	var autosave <-chan time.Time
	if s.store != nil && s.cfg.AutosaveEvery > 0 {
		t := time.NewTicker(s.cfg.AutosaveEvery)
		defer t.Stop()
		autosave = t.C
	}

	logger.Log.Info("Maintenance loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Maintenance loop stopped")
			return
		case <-neutralize.C:
			s.SweepNeutralize()
		case <-sessions.C:
			s.SweepSessions()
		case <-board.C:
			s.FlushLeaderboard()
		case <-autosave:
			if err := s.Save(); err != nil {
				logger.Log.WithError(err).Error("Autosave failed")
			}
		}
	}
}

// Dispatch выполняет входящее сообщение от соединения actor.
// Возвращает Result: например, новый ID после resume.
func (s *GameService) Dispatch(ctx context.Context, actor domain.OwnerID, msg api.ClientMessage) (handlers.Result, error) {
	handler, ok := s.handlers[msg.Kind()]
	if !ok {
		return handlers.EmptyResult(), api.ErrUnknownMagic
	}

	result, err := handler(handlers.Context{Ctx: ctx, Game: s, Actor: actor}, msg)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"actor": actor,
			"kind":  msg.Kind().String(),
		}).WithError(err).Debug("Message rejected")
	}
	return result, err
}
