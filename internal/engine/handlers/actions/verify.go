package actions

import (
	"errors"

	"github.com/updogjp/infinichess/internal/engine/handlers"
	"github.com/updogjp/infinichess/pkg/api"
)

var ErrVerificationFailed = errors.New("verification failed")

// HandleVerify - проверка токена капчи. На ошибку транспорт закрывает соединение.
func HandleVerify(ctx handlers.Context, p api.VerifyMsg) (handlers.Result, error) {
	if !ctx.Game.Verify(ctx.Ctx, ctx.Actor, p.Token) {
		return handlers.EmptyResult(), ErrVerificationFailed
	}
	return handlers.EmptyResult(), nil
}
