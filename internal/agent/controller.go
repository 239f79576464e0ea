package agent

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/engine"
	"github.com/updogjp/infinichess/internal/systems"
	"github.com/updogjp/infinichess/pkg/logger"
	"github.com/updogjp/infinichess/pkg/utils"
)

// Game - то, что контроллер использует из движка
type Game interface {
	Humans() []engine.HumanInfo
	SpawnAutonomous(id domain.OwnerID, name string, color domain.Color, piece domain.PieceType, near domain.Position, maxRing int32) (domain.Position, bool)
	RemoveAutonomous(id domain.OwnerID, at domain.Position)
	Decide(id domain.OwnerID, from domain.Position, choose func(w *domain.World, moves []domain.Position) (domain.Position, bool)) (domain.Position, bool)
	RequestMove(actor domain.OwnerID, from, to domain.Position) bool
	PieceAt(pos domain.Position) domain.Piece
}

// Радиусы поиска свободной клетки при спавне
const (
	agentSpawnRing  = 4
	escortSpawnRing = 3
)

// Controller - планировщик автономных фигур. Один цикл, одна очередь решений.
type Controller struct {
	mu deadlock.Mutex

	cfg  Config
	game Game
	rng  *rand.Rand
	now  func() time.Time

	agents   map[domain.OwnerID]*Agent
	schedule *Schedule

	nextAgent    domain.OwnerID
	nextEscort   domain.OwnerID
	nextPopulate time.Time
}

func NewController(cfg Config, game Game) *Controller {
	return &Controller{
		cfg:        cfg,
		game:       game,
		rng:        utils.NewRand(cfg.Seed),
		now:        time.Now,
		agents:     make(map[domain.OwnerID]*Agent),
		schedule:   NewSchedule(),
		nextAgent:  domain.AgentMin,
		nextEscort: domain.EscortMin,
	}
}

// SetClock подменяет часы (для тестов)
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Run крутит планировщик до отмены контекста
func (c *Controller) Run(ctx context.Context) {
	if !c.cfg.Enabled {
		logger.Log.Info("Agent controller disabled")
		return
	}

	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	logger.Log.WithFields(logrus.Fields{
		"tick":       c.cfg.Tick,
		"per_player": c.cfg.AgentsPerPlayer,
		"max":        c.cfg.MaxAgents,
	}).Info("Agent controller started")

	for {
		select {
		case <-ctx.Done():
			logger.Log.WithField("agents", c.Count()).Info("Agent controller stopped")
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick - один шаг: раз в PopulateEvery чистка и доспавн, затем решения всех, чье время пришло
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	humans := c.game.Humans()

	if !now.Before(c.nextPopulate) {
		c.nextPopulate = now.Add(c.cfg.PopulateEvery)
		c.cullLocked(humans)
		c.populateLocked(humans, now)
	}

	byID := make(map[domain.OwnerID]engine.HumanInfo, len(humans))
	for _, h := range humans {
		byID[h.ID] = h
	}

	for {
		a, ok := c.schedule.PopDue(now)
		if !ok {
			break
		}
		if !c.refreshLocked(a) {
			c.removeLocked(a, "piece lost")
			continue
		}
		c.stepLocked(a, byID)
		c.schedule.Set(a, now.Add(c.delay()))
	}
}

// refreshLocked сверяет агента с доской. false - фигура пропала.
func (c *Controller) refreshLocked(a *Agent) bool {
	p := c.game.PieceAt(a.Pos)
	if p.IsEmpty() || p.Owner != a.ID {
		return false
	}
	a.Piece = p.Type // мог эволюционировать
	return true
}

func (c *Controller) stepLocked(a *Agent, humans map[domain.OwnerID]engine.HumanInfo) {
	view := systems.AgentView{
		Self:        a.ID,
		From:        a.Pos,
		Ward:        a.Ward,
		Leash:       c.cfg.EscortLeash,
		ScanRadius:  c.cfg.ScanRadius,
		CaptureBias: c.cfg.CaptureBias,
		Protected: func(owner domain.OwnerID) bool {
			h, ok := humans[owner]
			return ok && h.Immune
		},
	}
	if a.IsEscort() {
		if h, ok := humans[a.Ward]; ok {
			pos := h.Pos
			view.WardPos = &pos
		}
	}

	var dec systems.AgentDecision
	to, ok := c.game.Decide(a.ID, a.Pos, func(w *domain.World, moves []domain.Position) (domain.Position, bool) {
		view.World = w
		view.Moves = moves
		var found bool
		dec, found = systems.ChooseAgentMove(view, c.rng)
		return dec.To, found
	})
	if !ok {
		return
	}

	from := a.Pos
	if !c.game.RequestMove(a.ID, from, to) {
		return
	}
	a.Pos = to

	if logger.Log.IsLevelEnabled(logrus.TraceLevel) {
		logger.Log.WithFields(logrus.Fields{
			"agent":  a.ID,
			"move":   domain.Notation(a.Piece, from, to, dec.Capture),
			"reason": dec.Reason,
		}).Trace("Agent moved")
	}
}

// cullLocked убирает пропавших, далеких от людей, осиротевший эскорт и лишних сверх MaxAgents
func (c *Controller) cullLocked(humans []engine.HumanInfo) {
	present := make(map[domain.OwnerID]struct{}, len(humans))
	for _, h := range humans {
		present[h.ID] = struct{}{}
	}
	limit := int64(c.cfg.CullDistance) * int64(c.cfg.CullDistance)

	for _, a := range c.sortedLocked() {
		switch {
		case !c.refreshLocked(a):
			c.removeLocked(a, "piece lost")
		case a.IsEscort():
			if _, ok := present[a.Ward]; !ok {
				c.removeLocked(a, "ward gone")
			}
		default:
			if d, ok := nearestHuman(a.Pos, humans); !ok || d > limit {
				c.removeLocked(a, "too far")
			}
		}
	}

	if c.cfg.MaxAgents <= 0 || len(c.agents) <= c.cfg.MaxAgents {
		return
	}
	rest := c.sortedLocked()
	sort.SliceStable(rest, func(i, j int) bool {
		di, _ := nearestHuman(rest[i].Pos, humans)
		dj, _ := nearestHuman(rest[j].Pos, humans)
		return di > dj
	})
	for _, a := range rest[:len(c.agents)-c.cfg.MaxAgents] {
		c.removeLocked(a, "over cap")
	}
}

// populateLocked добирает эскорт каждому человеку онлайн и до SpawnPerRound обычных агентов
func (c *Controller) populateLocked(humans []engine.HumanInfo, now time.Time) {
	online := make([]engine.HumanInfo, 0, len(humans))
	for _, h := range humans {
		if h.Online {
			online = append(online, h)
		}
	}
	if len(online) == 0 {
		return
	}

	escorts := make(map[domain.OwnerID]int)
	regular := 0
	for _, a := range c.agents {
		if a.IsEscort() {
			escorts[a.Ward]++
		} else {
			regular++
		}
	}

	for _, h := range online {
		for i := escorts[h.ID]; i < c.cfg.EscortsPerPlayer && c.hasRoomLocked(); i++ {
			piece := domain.PieceKnight + domain.PieceType(c.rng.Intn(3))
			c.spawnLocked(h.ID, piece, h.Pos, escortSpawnRing, now)
		}
	}

	target := len(online) * c.cfg.AgentsPerPlayer
	toSpawn := target - regular
	if toSpawn > c.cfg.SpawnPerRound {
		toSpawn = c.cfg.SpawnPerRound
	}
	for i := 0; i < toSpawn && c.hasRoomLocked(); i++ {
		h := online[c.rng.Intn(len(online))]
		piece := domain.PiecePawn + domain.PieceType(c.rng.Intn(5))
		c.spawnLocked(domain.NeutralOwner, piece, c.around(h.Pos), agentSpawnRing, now)
	}
}

func (c *Controller) hasRoomLocked() bool {
	return c.cfg.MaxAgents <= 0 || len(c.agents) < c.cfg.MaxAgents
}

func (c *Controller) spawnLocked(ward domain.OwnerID, piece domain.PieceType, near domain.Position, ring int32, now time.Time) {
	id := c.allocateLocked(ward != domain.NeutralOwner)
	if id == domain.NeutralOwner {
		return
	}
	pos, ok := c.game.SpawnAutonomous(id, nameFor(id), colorFor(id), piece, near, ring)
	if !ok {
		return
	}

	a := &Agent{ID: id, Pos: pos, Piece: piece, Ward: ward}
	c.agents[id] = a
	c.schedule.Set(a, now.Add(c.delay()))

	logger.Log.WithFields(logrus.Fields{
		"agent": id,
		"piece": piece.String(),
		"pos":   domain.SquareNotation(pos),
		"ward":  ward,
	}).Debug("Agent spawned")
}

func (c *Controller) removeLocked(a *Agent, reason string) {
	c.schedule.Remove(a)
	delete(c.agents, a.ID)
	c.game.RemoveAutonomous(a.ID, a.Pos)

	logger.Log.WithFields(logrus.Fields{
		"agent":  a.ID,
		"reason": reason,
	}).Debug("Agent culled")
}

// allocateLocked - следующий свободный ID в диапазоне агентов или эскорта
func (c *Controller) allocateLocked(escort bool) domain.OwnerID {
	lo, hi, next := domain.AgentMin, domain.AgentMax, &c.nextAgent
	if escort {
		lo, hi, next = domain.EscortMin, domain.EscortMax, &c.nextEscort
	}
	for i := 0; i <= len(c.agents); i++ {
		id := *next
		if *next++; *next > hi {
			*next = lo
		}
		if _, used := c.agents[id]; !used {
			return id
		}
	}
	return domain.NeutralOwner
}

// around - случайная точка в круге SpawnRadius
func (c *Controller) around(center domain.Position) domain.Position {
	angle := c.rng.Float64() * 2 * math.Pi
	dist := c.rng.Float64() * float64(c.cfg.SpawnRadius)
	return center.Shift(int32(math.Floor(math.Cos(angle)*dist)), int32(math.Floor(math.Sin(angle)*dist)))
}

func (c *Controller) delay() time.Duration {
	return utils.Jitter(c.rng, c.cfg.MoveInterval, c.cfg.Jitter)
}

// sortedLocked - агенты по возрастанию ID, чтобы обход не зависел от порядка map
func (c *Controller) sortedLocked() []*Agent {
	out := make([]*Agent, 0, len(c.agents))
	for _, a := range c.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// nearestHuman - квадрат расстояния до ближайшего человека
func nearestHuman(pos domain.Position, humans []engine.HumanInfo) (int64, bool) {
	best := int64(-1)
	for _, h := range humans {
		if d := pos.DistanceSquaredTo(h.Pos); best < 0 || d < best {
			best = d
		}
	}
	return best, best >= 0
}

// Count - число агентов и эскорта
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.agents)
}

// Agents - копия списка для debug-эндпоинтов
func (c *Controller) Agents() []Agent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Agent, 0, len(c.agents))
	for _, a := range c.sortedLocked() {
		out = append(out, *a)
	}
	return out
}
