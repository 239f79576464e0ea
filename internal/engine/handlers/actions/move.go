package actions

import (
	"github.com/updogjp/infinichess/internal/engine/handlers"
	"github.com/updogjp/infinichess/pkg/api"
)

// HandleMove - запрос хода. Нарушение правил или кулдауна - молча игнорируется движком.
func HandleMove(ctx handlers.Context, p api.MoveMsg) (handlers.Result, error) {
	ctx.Game.RequestMove(ctx.Actor, p.From, p.To)
	return handlers.EmptyResult(), nil
}
