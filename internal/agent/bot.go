package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/systems"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
	"github.com/updogjp/infinichess/pkg/utils"
)

// Bot - "игрок-компьютер" снаружи сервера.
// Подключается по websocket так же, как обычный игрок, держит локальную копию
// своего вьюпорта и ходит тем же выбором, что и серверные агенты.
//
// Жизненный цикл:
//  1. Run -> dial, фрейм identity.
//  2. Входящие фреймы (snapshot/set/move) обновляют локальный мир через Apply.
//  3. Раз в Interval Next выбирает ход своей фигурой, бот шлет move и camera.
type Bot struct {
	Name     string
	Piece    domain.PieceType
	Interval time.Duration

	rules systems.Rules
	rng   *rand.Rand
	world *domain.World
	self  domain.OwnerID
}

func NewBot(name string, piece domain.PieceType, boardSize int32, seed int64) *Bot {
	return &Bot{
		Name:     name,
		Piece:    piece,
		Interval: 2 * time.Second,
		rules:    systems.NewRules(boardSize),
		rng:      utils.NewRand(seed),
		world:    domain.NewWorld(),
	}
}

// Self - ID, который выдал сервер (0 до первого снапшота)
func (b *Bot) Self() domain.OwnerID {
	return b.self
}

// Apply обновляет локальный мир по фрейму сервера. Незнакомые фреймы игнорируются.
func (b *Bot) Apply(frame []byte) error {
	switch api.Magic(frame) {
	case api.MagicSnapshot:
		snap, err := api.DecodeSnapshot(frame)
		if err != nil {
			return err
		}
		b.self = snap.Actor
		b.world.Clear()
		for _, p := range snap.Pieces {
			b.world.Set(p.X, p.Y, p.Type, p.Owner)
		}

	case api.MagicSet:
		p, err := api.DecodeSet(frame)
		if err != nil {
			return err
		}
		b.world.Set(p.X, p.Y, p.Type, p.Owner)

	case api.MagicMove:
		ev, err := api.DecodeMove(frame)
		if err != nil {
			return err
		}
		p := b.world.Remove(ev.From.X, ev.From.Y)
		if p.IsEmpty() {
			// Ход пришел из-за края вьюпорта: тип узнаем из следующего снапшота
			return nil
		}
		b.world.Set(ev.To.X, ev.To.Y, p.Type, p.Owner)
	}
	return nil
}

// Next выбирает ход одной из своих фигур
func (b *Bot) Next() (api.MoveMsg, bool) {
	if b.self == domain.NeutralOwner {
		return api.MoveMsg{}, false
	}

	var mine []domain.Position
	b.world.ForEach(func(p domain.Piece) bool {
		if p.Owner == b.self {
			mine = append(mine, p.Pos())
		}
		return true
	})
	if len(mine) == 0 {
		return api.MoveMsg{}, false
	}
	sort.Slice(mine, func(i, j int) bool {
		if mine[i].X != mine[j].X {
			return mine[i].X < mine[j].X
		}
		return mine[i].Y < mine[j].Y
	})

	start := b.rng.Intn(len(mine))
	for i := range mine {
		from := mine[(start+i)%len(mine)]
		moves := b.rules.Generate(from.X, from.Y, b.world, b.self, 0)
		if len(moves) == 0 {
			continue
		}
		dec, ok := systems.ChooseAgentMove(systems.AgentView{
			Self:        b.self,
			From:        from,
			Moves:       moves,
			World:       b.world,
			ScanRadius:  24,
			CaptureBias: 0.85,
		}, b.rng)
		if ok {
			return api.MoveMsg{From: from, To: dec.To}, true
		}
	}
	return api.MoveMsg{}, false
}

// Run играет до отмены ctx или обрыва соединения
func (b *Bot) Run(ctx context.Context, url string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	log := logger.Log.WithFields(logrus.Fields{"bot": b.Name})

	identity := api.IdentityMsg{Name: b.Name, Color: colorFor(domain.OwnerID(b.rng.Intn(len(palette)))), Piece: b.Piece}
	if err := conn.WriteMessage(websocket.BinaryMessage, identity.Encode()); err != nil {
		return fmt.Errorf("send identity: %w", err)
	}

	frames := make(chan []byte, 64)
	readErr := make(chan error, 1)
	go func() {
		defer close(frames)
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil

		case frame, ok := <-frames:
			if !ok {
				var err error
				select {
				case err = <-readErr:
				default:
				}
				if err == nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				return err
			}
			if err := b.Apply(frame); err != nil {
				log.WithError(err).Debug("Bad frame from server")
			}

		case <-ticker.C:
			move, ok := b.Next()
			if !ok {
				continue
			}
			camera := api.CameraMsg{X: move.To.X, Y: move.To.Y, Scale100: 100}
			for _, out := range [][]byte{move.Encode(), camera.Encode()} {
				if err := conn.WriteMessage(websocket.BinaryMessage, out); err != nil {
					if errors.Is(err, websocket.ErrCloseSent) {
						return nil
					}
					return fmt.Errorf("send: %w", err)
				}
			}
			log.WithField("move", domain.Notation(b.world.Get(move.From.X, move.From.Y).Type, move.From, move.To,
				!b.world.Get(move.To.X, move.To.Y).IsEmpty())).Debug("Bot moved")
		}
	}
}
