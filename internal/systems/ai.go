package systems

import (
	"math/rand"

	"github.com/updogjp/infinichess/internal/domain"
)

// Веса целей для взятия: человек > нейтральная > чужой агент
const (
	weightHuman   = 300
	weightNeutral = 200
	weightAgent   = 100
)

// AgentView - все, что нужно агенту для решения. Ходы уже посчитаны через Rules.Generate.
type AgentView struct {
	Self  domain.OwnerID
	From  domain.Position
	Moves []domain.Position
	World *domain.World

	// Фигуры этого владельца нельзя брать (подопечный эскорта). 0 - нет такого.
	Ward    domain.OwnerID
	WardPos *domain.Position
	Leash   int64

	// Protected - владелец под защитой (иммунитет после спавна)
	Protected func(owner domain.OwnerID) bool

	ScanRadius  int32
	CaptureBias float64
}

// AgentDecision - выбранный ход
type AgentDecision struct {
	To      domain.Position
	Capture bool
	Reason  string
}

// ChooseAgentMove выбирает ход для автономной фигуры.
// ok == false, если ходить некуда.
func ChooseAgentMove(v AgentView, rng *rand.Rand) (AgentDecision, bool) {
	var (
		captures []domain.Position
		quiet    []domain.Position
	)

	for _, m := range v.Moves {
		target := v.World.Get(m.X, m.Y)
		if target.IsEmpty() {
			quiet = append(quiet, m)
			continue
		}
		if v.forbidden(target.Owner) {
			continue
		}
		captures = append(captures, m)
	}

	// 1. Взятие с высокой вероятностью
	if len(captures) > 0 && rng.Float64() < v.CaptureBias {
		best := captures[0]
		bestScore := -1
		for _, c := range captures {
			if s := captureScore(v.World.Get(c.X, c.Y)); s > bestScore {
				best, bestScore = c, s
			}
		}
		return AgentDecision{To: best, Capture: true, Reason: "capture"}, true
	}

	// 2. Эскорт держится рядом с подопечным
	if v.WardPos != nil && v.Leash > 0 && v.From.ChebyshevTo(*v.WardPos) > v.Leash {
		if to, ok := closestTo(quiet, *v.WardPos, v.From); ok {
			return AgentDecision{To: to, Reason: "follow"}, true
		}
	}

	// 3. Двигаемся к ближайшей чужой фигуре
	if target, ok := v.nearestTarget(); ok {
		if to, ok := closestTo(quiet, target, v.From); ok {
			return AgentDecision{To: to, Reason: "approach"}, true
		}
	}

	// 4. Любой ход
	all := append(quiet, captures...)
	if len(all) == 0 {
		return AgentDecision{}, false
	}
	to := all[rng.Intn(len(all))]
	return AgentDecision{To: to, Capture: !v.World.Get(to.X, to.Y).IsEmpty(), Reason: "wander"}, true
}

func (v AgentView) forbidden(owner domain.OwnerID) bool {
	if owner == v.Self {
		return true
	}
	if v.Ward != 0 && owner == v.Ward {
		return true
	}
	return v.Protected != nil && owner.IsHuman() && v.Protected(owner)
}

// nearestTarget ищет ближайшую фигуру, которую можно взять, в ограниченном радиусе
func (v AgentView) nearestTarget() (domain.Position, bool) {
	if v.ScanRadius <= 0 {
		return domain.Position{}, false
	}
	var (
		best  domain.Position
		bestD int64 = -1
	)
	for _, p := range v.World.QueryRadius(v.From.X, v.From.Y, v.ScanRadius) {
		if v.forbidden(p.Owner) {
			continue
		}
		d := p.Pos().DistanceSquaredTo(v.From)
		if bestD < 0 || d < bestD {
			best, bestD = p.Pos(), d
		}
	}
	return best, bestD >= 0
}

// closestTo - ход, который сильнее всего приближает к цели. Ход должен реально приближать.
func closestTo(moves []domain.Position, target, from domain.Position) (domain.Position, bool) {
	bestD := from.DistanceSquaredTo(target)
	var best domain.Position
	found := false
	for _, m := range moves {
		if d := m.DistanceSquaredTo(target); d < bestD {
			best, bestD, found = m, d, true
		}
	}
	return best, found
}

func captureScore(p domain.Piece) int {
	base := weightAgent
	switch p.Owner.Kind() {
	case domain.KindHuman:
		base = weightHuman
	case domain.KindNeutral:
		base = weightNeutral
	}
	return base + p.Type.Value()
}
