package agent

import (
	"os"
	"testing"
	"time"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/engine"
	"github.com/updogjp/infinichess/internal/systems"
	"github.com/updogjp/infinichess/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeGame - движок без блокировок и кулдаунов: только доска и правила
type fakeGame struct {
	world      *domain.World
	rules      systems.Rules
	humans     []engine.HumanInfo
	registered map[domain.OwnerID]bool
	removed    []domain.OwnerID
	moves      int
}

func newFakeGame() *fakeGame {
	return &fakeGame{
		world:      domain.NewWorld(),
		rules:      systems.NewRules(0),
		registered: make(map[domain.OwnerID]bool),
	}
}

func (g *fakeGame) Humans() []engine.HumanInfo {
	return append([]engine.HumanInfo(nil), g.humans...)
}

func (g *fakeGame) SpawnAutonomous(id domain.OwnerID, _ string, _ domain.Color, piece domain.PieceType, near domain.Position, maxRing int32) (domain.Position, bool) {
	if g.registered[id] {
		return domain.Position{}, false
	}
	pos, ok := g.rules.FindFreeNear(g.world, near, maxRing)
	if !ok {
		return domain.Position{}, false
	}
	g.world.Set(pos.X, pos.Y, piece, id)
	g.registered[id] = true
	return pos, true
}

func (g *fakeGame) RemoveAutonomous(id domain.OwnerID, at domain.Position) {
	delete(g.registered, id)
	g.removed = append(g.removed, id)
	if g.world.Get(at.X, at.Y).Owner == id {
		g.world.Set(at.X, at.Y, domain.PieceEmpty, domain.NeutralOwner)
	}
}

func (g *fakeGame) Decide(id domain.OwnerID, from domain.Position, choose func(w *domain.World, moves []domain.Position) (domain.Position, bool)) (domain.Position, bool) {
	if p := g.world.Get(from.X, from.Y); p.Owner != id {
		return domain.Position{}, false
	}
	moves := g.rules.Generate(from.X, from.Y, g.world, id, 0)
	if len(moves) == 0 {
		return domain.Position{}, false
	}
	return choose(g.world, moves)
}

func (g *fakeGame) RequestMove(actor domain.OwnerID, from, to domain.Position) bool {
	src := g.world.Get(from.X, from.Y)
	if src.Owner != actor || !g.rules.IsLegal(from, to, g.world, actor, 0) {
		return false
	}
	g.world.Set(from.X, from.Y, domain.PieceEmpty, domain.NeutralOwner)
	g.world.Set(to.X, to.Y, src.Type, actor)
	g.moves++
	return true
}

func (g *fakeGame) PieceAt(pos domain.Position) domain.Piece {
	return g.world.Get(pos.X, pos.Y)
}

// addHuman ставит фигуру человека на доску
func (g *fakeGame) addHuman(id domain.OwnerID, pos domain.Position, piece domain.PieceType, immune bool) {
	g.world.Set(pos.X, pos.Y, piece, id)
	g.humans = append(g.humans, engine.HumanInfo{ID: id, Pos: pos, Online: true, Immune: immune})
}

// setupController - контроллер на фейковом движке, часы на t0
func setupController(t *testing.T, mutate func(*Config)) (*Controller, *fakeGame, *fakeClock) {
	t.Helper()
	cfg := NewConfig()
	cfg.Seed = 1
	if mutate != nil {
		mutate(&cfg)
	}
	g := newFakeGame()
	c := NewController(cfg, g)
	clock := &fakeClock{now: t0}
	c.SetClock(clock.Now)
	return c, g, clock
}

// adopt ставит агента в обход populate. Решение - сразу.
func adopt(c *Controller, g *fakeGame, id domain.OwnerID, pos domain.Position, piece domain.PieceType, ward domain.OwnerID) *Agent {
	g.world.Set(pos.X, pos.Y, piece, id)
	g.registered[id] = true
	a := &Agent{ID: id, Pos: pos, Piece: piece, Ward: ward}
	c.agents[id] = a
	c.schedule.Set(a, t0)
	return a
}

func sq(x, y int32) domain.Position { return domain.Position{X: x, Y: y} }
