package agent

import (
	"time"

	"github.com/updogjp/infinichess/internal/domain"
)

// Agent - автономная фигура. Ходит через тот же движок, что и люди:
// легальность и мутации проверяются engine.RequestMove.
//
// Жизненный цикл:
//  1. Controller.populate -> SpawnAutonomous, агент ставится в расписание.
//  2. Controller.Tick -> когда NextAt наступил, агент выбирает ход (decide) и отправляет его.
//  3. Фигура пропала, агент далеко от людей или подопечный ушел -> RemoveAutonomous.
type Agent struct {
	ID    domain.OwnerID   `json:"id"`
	Pos   domain.Position  `json:"pos"`
	Piece domain.PieceType `json:"piece"`

	// Ward - охраняемый человек (только у эскорта)
	Ward domain.OwnerID `json:"ward,omitempty"`

	NextAt time.Time `json:"nextAt"`
}

func (a *Agent) IsEscort() bool { return a.Ward != domain.NeutralOwner }
