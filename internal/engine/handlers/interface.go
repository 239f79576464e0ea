package handlers

import (
	"context"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/api"
)

// Game описывает операции движка, доступные хендлерам.
// GameService неявно реализует этот интерфейс.
type Game interface {
	RequestMove(actor domain.OwnerID, from, to domain.Position) bool
	UpdateCamera(actor domain.OwnerID, cam domain.Camera)
	SetIdentity(actor domain.OwnerID, msg api.IdentityMsg)
	Resume(actor domain.OwnerID, token [api.TokenLen]byte) domain.OwnerID
	Chat(actor domain.OwnerID, text string)
	Verify(ctx context.Context, actor domain.OwnerID, token string) bool
}

// Context передает хендлеру движок и того, кто прислал сообщение.
type Context struct {
	Ctx   context.Context
	Game  Game
	Actor domain.OwnerID // Соединение, от которого пришло сообщение
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ трогает транспорт напрямую, он возвращает данные.
type Result struct {
	// Rebind != 0: соединение теперь принадлежит этому ID (успешный resume)
	Rebind domain.OwnerID
}

// HandlerFunc - это контракт для любого сообщения (MOVE, CAMERA, etc).
type HandlerFunc func(ctx Context, msg api.ClientMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
