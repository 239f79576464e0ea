package actions

import (
	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/engine/handlers"
	"github.com/updogjp/infinichess/pkg/api"
)

func HandleCamera(ctx handlers.Context, p api.CameraMsg) (handlers.Result, error) {
	ctx.Game.UpdateCamera(ctx.Actor, domain.Camera{X: p.X, Y: p.Y, Scale: p.Scale()})
	return handlers.EmptyResult(), nil
}
