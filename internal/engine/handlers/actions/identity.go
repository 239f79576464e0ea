package actions

import (
	"github.com/updogjp/infinichess/internal/engine/handlers"
	"github.com/updogjp/infinichess/pkg/api"
)

// HandleIdentity - имя, цвет, фигура. Имя чистится здесь, до движка.
func HandleIdentity(ctx handlers.Context, p api.IdentityMsg) (handlers.Result, error) {
	p.Name = api.SanitizeName(p.Name)
	ctx.Game.SetIdentity(ctx.Actor, p)
	return handlers.EmptyResult(), nil
}
