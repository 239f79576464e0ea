package actions

import (
	"github.com/updogjp/infinichess/internal/engine/handlers"
	"github.com/updogjp/infinichess/pkg/api"
)

// HandleResume - продолжение сессии. При успехе соединение переходит на восстановленный ID.
func HandleResume(ctx handlers.Context, p api.ResumeMsg) (handlers.Result, error) {
	id := ctx.Game.Resume(ctx.Actor, p.Token)
	if id == ctx.Actor {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{Rebind: id}, nil
}
