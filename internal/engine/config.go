package engine

import (
	"time"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/network"
)

// Tier - порог эволюции: при Kills взятий фигура становится Piece
type Tier struct {
	Kills int              `mapstructure:"kills" json:"kills"`
	Piece domain.PieceType `mapstructure:"piece" json:"piece"`
}

// DefaultTiers - пешка растет до ферзя
var DefaultTiers = []Tier{
	{Kills: 3, Piece: domain.PieceKnight},
	{Kills: 6, Piece: domain.PieceBishop},
	{Kills: 10, Piece: domain.PieceRook},
	{Kills: 15, Piece: domain.PieceQueen},
}

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно генерации мира и спавна
	Seed int64

	// BoardSize > 0 - конечная доска [0, BoardSize). 0 - бесконечный мир.
	BoardSize int32

	// Генерация нейтральных фигур при пустом мире
	GenRadius  int32
	GenDensity float64

	// MaxNeutralPieces - потолок ничьих фигур. Сверх него выселяются самые далекие от людей. 0 - без потолка.
	MaxNeutralPieces int

	// Спавн людей
	SpawnRadius  int32
	KingBuffer   int32
	SpawnTries   int
	DefaultPiece domain.PieceType

	MoveCooldown      time.Duration
	LatencyTolerance  time.Duration
	AgentMoveCooldown time.Duration
	RespawnDelay      time.Duration
	SpawnImmunity     time.Duration

	SessionTTL        time.Duration
	SessionSweepEvery time.Duration
	NeutralizeEvery   time.Duration
	LeaderboardEvery  time.Duration
	LeaderboardSize   int
	AutosaveEvery     time.Duration

	// RequireVerification == false: каждое соединение верифицировано сразу
	RequireVerification bool

	Tiers []Tier

	// DebugLocks включает детектор взаимных блокировок go-deadlock
	DebugLocks bool

	Router network.Options
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:       time.Now().UnixNano(),
		BoardSize:  0,
		GenRadius:  256,
		GenDensity: 0.002,

		MaxNeutralPieces: 200_000,

		SpawnRadius:  200,
		KingBuffer:   4,
		SpawnTries:   100,
		DefaultPiece: domain.PieceKing,

		MoveCooldown:      domain.MoveCooldown,
		LatencyTolerance:  domain.LatencyTolerance,
		AgentMoveCooldown: domain.MoveCooldown,
		RespawnDelay:      domain.RespawnDelay,
		SpawnImmunity:     domain.SpawnImmunity,

		SessionTTL:        60 * time.Second,
		SessionSweepEvery: time.Second,
		NeutralizeEvery:   domain.NeutralizeEvery,
		LeaderboardEvery:  time.Second,
		LeaderboardSize:   20,
		AutosaveEvery:     120 * time.Second,

		RequireVerification: false,

		Tiers: DefaultTiers,

		Router: network.DefaultOptions(),
	}
}

// minMoveInterval - минимальный интервал между ходами человека с поправкой на пинг
func (c Config) minMoveInterval() time.Duration {
	d := c.MoveCooldown - c.LatencyTolerance
	if d < 0 {
		return 0
	}
	return d
}

// tierAt возвращает фигуру, если счет ровно достиг порога
func (c Config) tierAt(kills int) (domain.PieceType, bool) {
	for _, t := range c.Tiers {
		if t.Kills == kills {
			return t.Piece, true
		}
	}
	return domain.PieceEmpty, false
}
