package actions

import (
	"github.com/updogjp/infinichess/internal/engine/handlers"
	"github.com/updogjp/infinichess/pkg/api"
)

func HandleChat(ctx handlers.Context, p api.ChatMsg) (handlers.Result, error) {
	ctx.Game.Chat(ctx.Actor, p.Text)
	return handlers.EmptyResult(), nil
}
