package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/updogjp/infinichess/internal/agent"
	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/logger"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "Server websocket URL")
	count := flag.Int("bots", 4, "Number of bots (server.max_conns_per_ip must allow them)")
	piece := flag.String("piece", "king", "Spawn piece")
	seed := flag.Int64("seed", 1, "Base seed")
	interval := flag.Duration("interval", 2*time.Second, "Delay between moves")
	board := flag.Int("board", 0, "Board size (0 = infinite)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until Ctrl+C)")
	flag.Parse()

	logger.Init()

	pt := domain.ParsePieceType(*piece)
	if !pt.Valid() {
		fmt.Printf("Unknown piece %q\n", *piece)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	var wg sync.WaitGroup
	for i := 0; i < *count; i++ {
		bot := agent.NewBot(fmt.Sprintf("bot_%d", i), pt, int32(*board), *seed+int64(i))
		bot.Interval = *interval

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bot.Run(ctx, *url); err != nil {
				logger.Log.WithError(err).WithField("bot", bot.Name).Warn("Bot stopped")
			}
		}()
		// Лимит апгрейдов на IP: 1/с с запасом 5
		time.Sleep(time.Second)
	}

	wg.Wait()
	logger.Log.Info("All bots stopped")
}
