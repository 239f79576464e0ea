package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/infrastructure/storage"
	"github.com/updogjp/infinichess/pkg/worldgen"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "world":
		pieces, err := storage.ReadWorldFile(os.Args[2])
		if err != nil {
			fmt.Printf("Cannot read world: %v\n", err)
			os.Exit(1)
		}
		summarize(pieces)
	case "players":
		players, err := storage.NewStore(filepath.Clean(os.Args[2])).LoadPlayers()
		if err != nil {
			fmt.Printf("Cannot read players: %v\n", err)
			os.Exit(1)
		}
		sort.Slice(players, func(i, j int) bool { return players[i].Kills > players[j].Kills })
		for i, p := range players {
			fmt.Printf("%3d. %-16s id=%-6d kills=%d\n", i+1, p.Name, p.ID, p.Kills)
		}
	case "gen":
		seed, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid seed: %v\n", err)
			os.Exit(1)
		}
		b := worldgen.New(seed)
		if len(os.Args) > 3 {
			r, err := strconv.ParseInt(os.Args[3], 10, 32)
			if err != nil {
				fmt.Printf("Invalid radius: %v\n", err)
				os.Exit(1)
			}
			b = b.WithRadius(int32(r))
		}
		summarize(b.Build())
	default:
		printHelp()
	}
}

// summarize печатает число фигур по типам и охватывающий прямоугольник
func summarize(pieces []domain.Piece) {
	fmt.Printf("Pieces: %d\n", len(pieces))
	if len(pieces) == 0 {
		return
	}

	counts := make(map[domain.PieceType]int)
	minX, minY := pieces[0].X, pieces[0].Y
	maxX, maxY := minX, minY
	for _, p := range pieces {
		counts[p.Type]++
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	for t := domain.PiecePawn; t <= domain.PieceKing; t++ {
		if n := counts[t]; n > 0 {
			fmt.Printf("  %-7s %d\n", t.String(), n)
		}
	}
	fmt.Printf("Bounds: %s .. %s\n",
		domain.SquareNotation(domain.Position{X: minX, Y: minY}),
		domain.SquareNotation(domain.Position{X: maxX, Y: maxY}))
}

func printHelp() {
	fmt.Println(`World Inspector - просмотр сохранений мира
Commands:
  world <path/world.dat>   - фигуры по типам и границы
  players <data_dir>       - таблица лидеров из players.dat
  gen <seed> [radius]      - что сгенерирует worldgen для сида`)
}
