package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/updogjp/infinichess/internal/agent"
	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/engine"
	"github.com/updogjp/infinichess/internal/server"
)

const envPrefix = "INFINICHESS"

// Config - все, что нужно main для сборки сервера
type Config struct {
	Engine engine.Config
	Agents agent.Config
	Server server.Config

	// Каталог world.dat / players.dat. Пусто - без сохранения.
	DataDir string

	// Пусто - встроенный список
	ChatBlocklist []string
}

// Flags - значения из командной строки, перекрывают файл и окружение
type Flags struct {
	ConfigFile string
	Seed       int64
	Port       string
}

// Load собирает конфиг: умолчания < файл < окружение (.env тоже) < флаги
func Load(flags Flags) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Короткие имена, старый CD_PORT тоже понимаем
	if err := v.BindEnv("server.port", envPrefix+"_SERVER_PORT", envPrefix+"_PORT", "CD_PORT"); err != nil {
		return Config{}, err
	}

	if flags.ConfigFile != "" {
		v.SetConfigFile(flags.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", flags.ConfigFile, err)
		}
	}

	cfg, err := build(v)
	if err != nil {
		return Config{}, err
	}

	if flags.Seed != 0 {
		cfg.Engine.Seed = flags.Seed
	}
	if flags.Port != "" {
		cfg.Server.Port = flags.Port
	}
	// Агенты получают свое зерно, производное от мирового
	if cfg.Agents.Seed == 0 {
		cfg.Agents.Seed = cfg.Engine.Seed + 1
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	e := engine.NewConfig()
	a := agent.NewConfig()
	s := server.NewConfig()

	v.SetDefault("world.seed", 0)
	v.SetDefault("world.board_size", e.BoardSize)
	v.SetDefault("world.gen_radius", e.GenRadius)
	v.SetDefault("world.gen_density", e.GenDensity)
	v.SetDefault("world.max_neutral_pieces", e.MaxNeutralPieces)
	v.SetDefault("world.data_dir", "data")

	v.SetDefault("spawn.radius", e.SpawnRadius)
	v.SetDefault("spawn.king_buffer", e.KingBuffer)
	v.SetDefault("spawn.tries", e.SpawnTries)
	v.SetDefault("spawn.default_piece", e.DefaultPiece.String())

	v.SetDefault("timing.move_cooldown", e.MoveCooldown)
	v.SetDefault("timing.latency_tolerance", e.LatencyTolerance)
	v.SetDefault("timing.agent_move_cooldown", e.AgentMoveCooldown)
	v.SetDefault("timing.respawn_delay", e.RespawnDelay)
	v.SetDefault("timing.spawn_immunity", e.SpawnImmunity)
	v.SetDefault("timing.session_ttl", e.SessionTTL)
	v.SetDefault("timing.session_sweep", e.SessionSweepEvery)
	v.SetDefault("timing.neutralize_every", e.NeutralizeEvery)
	v.SetDefault("timing.leaderboard_every", e.LeaderboardEvery)
	v.SetDefault("timing.autosave_every", e.AutosaveEvery)

	v.SetDefault("leaderboard.size", e.LeaderboardSize)
	tiers := make([]map[string]any, 0, len(e.Tiers))
	for _, t := range e.Tiers {
		tiers = append(tiers, map[string]any{"kills": t.Kills, "piece": t.Piece.String()})
	}
	v.SetDefault("evolution.tiers", tiers)

	v.SetDefault("router.viewport_radius", e.Router.ViewportRadius)
	v.SetDefault("router.resync_interval", e.Router.ResyncInterval)
	v.SetDefault("router.queue_size", e.Router.QueueSize)

	v.SetDefault("security.require_verification", e.RequireVerification)
	v.SetDefault("security.replay_window", s.ReplayWindow)
	v.SetDefault("security.chat_blocklist", []string{})

	v.SetDefault("debug.locks", e.DebugLocks)
	v.SetDefault("debug.endpoints", s.EnableDebug)

	v.SetDefault("agents.enabled", a.Enabled)
	v.SetDefault("agents.tick", a.Tick)
	v.SetDefault("agents.move_interval", a.MoveInterval)
	v.SetDefault("agents.jitter", a.Jitter)
	v.SetDefault("agents.capture_bias", a.CaptureBias)
	v.SetDefault("agents.scan_radius", a.ScanRadius)
	v.SetDefault("agents.per_player", a.AgentsPerPlayer)
	v.SetDefault("agents.max", a.MaxAgents)
	v.SetDefault("agents.spawn_radius", a.SpawnRadius)
	v.SetDefault("agents.spawn_per_round", a.SpawnPerRound)
	v.SetDefault("agents.populate_every", a.PopulateEvery)
	v.SetDefault("agents.cull_distance", a.CullDistance)
	v.SetDefault("agents.escorts_per_player", a.EscortsPerPlayer)
	v.SetDefault("agents.escort_leash", a.EscortLeash)
	v.SetDefault("agents.seed", 0)

	v.SetDefault("server.port", s.Port)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.max_message_size", s.MaxMessageSize)
	v.SetDefault("server.message_rate", s.MessageRate)
	v.SetDefault("server.message_burst", s.MessageBurst)
	v.SetDefault("server.abuse_limit", s.AbuseLimit)
	v.SetDefault("server.abuse_window", s.AbuseWindow)
	v.SetDefault("server.connect_rate", s.ConnectRate)
	v.SetDefault("server.connect_burst", s.ConnectBurst)
	v.SetDefault("server.max_conns_per_ip", s.MaxConnsPerIP)
	v.SetDefault("server.trust_proxy", s.TrustProxy)
}

func build(v *viper.Viper) (Config, error) {
	e := engine.NewConfig()
	if seed := v.GetInt64("world.seed"); seed != 0 {
		e.Seed = seed
	}
	e.BoardSize = v.GetInt32("world.board_size")
	e.GenRadius = v.GetInt32("world.gen_radius")
	e.GenDensity = v.GetFloat64("world.gen_density")
	e.MaxNeutralPieces = v.GetInt("world.max_neutral_pieces")
	if e.MaxNeutralPieces < 0 {
		return Config{}, fmt.Errorf("world.max_neutral_pieces must be >= 0, got %d", e.MaxNeutralPieces)
	}

	e.SpawnRadius = v.GetInt32("spawn.radius")
	e.KingBuffer = v.GetInt32("spawn.king_buffer")
	e.SpawnTries = v.GetInt("spawn.tries")
	piece := domain.ParsePieceType(v.GetString("spawn.default_piece"))
	if piece == domain.PieceEmpty {
		return Config{}, fmt.Errorf("spawn.default_piece: unknown piece %q", v.GetString("spawn.default_piece"))
	}
	e.DefaultPiece = piece

	e.MoveCooldown = v.GetDuration("timing.move_cooldown")
	e.LatencyTolerance = v.GetDuration("timing.latency_tolerance")
	e.AgentMoveCooldown = v.GetDuration("timing.agent_move_cooldown")
	e.RespawnDelay = v.GetDuration("timing.respawn_delay")
	e.SpawnImmunity = v.GetDuration("timing.spawn_immunity")
	e.SessionTTL = v.GetDuration("timing.session_ttl")
	e.SessionSweepEvery = v.GetDuration("timing.session_sweep")
	e.NeutralizeEvery = v.GetDuration("timing.neutralize_every")
	e.LeaderboardEvery = v.GetDuration("timing.leaderboard_every")
	e.AutosaveEvery = v.GetDuration("timing.autosave_every")

	e.LeaderboardSize = v.GetInt("leaderboard.size")
	tiers, err := parseTiers(v)
	if err != nil {
		return Config{}, err
	}
	e.Tiers = tiers

	e.Router.ViewportRadius = v.GetFloat64("router.viewport_radius")
	e.Router.ResyncInterval = v.GetDuration("router.resync_interval")
	e.Router.QueueSize = v.GetInt("router.queue_size")

	e.RequireVerification = v.GetBool("security.require_verification")
	e.DebugLocks = v.GetBool("debug.locks")

	if err := positive(map[string]time.Duration{
		"timing.session_sweep":     e.SessionSweepEvery,
		"timing.neutralize_every":  e.NeutralizeEvery,
		"timing.leaderboard_every": e.LeaderboardEvery,
		"router.resync_interval":   e.Router.ResyncInterval,
	}); err != nil {
		return Config{}, err
	}

	a := agent.Config{
		Enabled:          v.GetBool("agents.enabled"),
		Tick:             v.GetDuration("agents.tick"),
		MoveInterval:     v.GetDuration("agents.move_interval"),
		Jitter:           v.GetFloat64("agents.jitter"),
		CaptureBias:      v.GetFloat64("agents.capture_bias"),
		ScanRadius:       v.GetInt32("agents.scan_radius"),
		AgentsPerPlayer:  v.GetInt("agents.per_player"),
		MaxAgents:        v.GetInt("agents.max"),
		SpawnRadius:      v.GetInt32("agents.spawn_radius"),
		SpawnPerRound:    v.GetInt("agents.spawn_per_round"),
		PopulateEvery:    v.GetDuration("agents.populate_every"),
		CullDistance:     v.GetInt32("agents.cull_distance"),
		EscortsPerPlayer: v.GetInt("agents.escorts_per_player"),
		EscortLeash:      v.GetInt64("agents.escort_leash"),
		Seed:             v.GetInt64("agents.seed"),
	}
	if a.Enabled {
		if err := positive(map[string]time.Duration{
			"agents.tick":          a.Tick,
			"agents.move_interval": a.MoveInterval,
		}); err != nil {
			return Config{}, err
		}
	}

	s := server.Config{
		Port:           v.GetString("server.port"),
		AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		MaxMessageSize: v.GetInt64("server.max_message_size"),
		MessageRate:    v.GetFloat64("server.message_rate"),
		MessageBurst:   v.GetInt("server.message_burst"),
		AbuseLimit:     v.GetInt("server.abuse_limit"),
		AbuseWindow:    v.GetDuration("server.abuse_window"),
		ConnectRate:    v.GetFloat64("server.connect_rate"),
		ConnectBurst:   v.GetInt("server.connect_burst"),
		MaxConnsPerIP:  v.GetInt("server.max_conns_per_ip"),
		TrustProxy:     v.GetBool("server.trust_proxy"),
		ReplayWindow:   v.GetDuration("security.replay_window"),
		EnableDebug:    v.GetBool("debug.endpoints"),
	}

	return Config{
		Engine:        e,
		Agents:        a,
		Server:        s,
		DataDir:       v.GetString("world.data_dir"),
		ChatBlocklist: v.GetStringSlice("security.chat_blocklist"),
	}, nil
}

// rawTier - порог эволюции в файле: фигура записана словом
type rawTier struct {
	Kills int    `mapstructure:"kills"`
	Piece string `mapstructure:"piece"`
}

// parseTiers - пороги по возрастанию, без королей
func parseTiers(v *viper.Viper) ([]engine.Tier, error) {
	var raw []rawTier
	if err := v.UnmarshalKey("evolution.tiers", &raw); err != nil {
		return nil, fmt.Errorf("evolution.tiers: %w", err)
	}
	out := make([]engine.Tier, 0, len(raw))
	last := 0
	for _, r := range raw {
		piece := domain.ParsePieceType(r.Piece)
		if !piece.Valid() || piece == domain.PieceKing {
			return nil, fmt.Errorf("evolution.tiers: bad piece %q", r.Piece)
		}
		if r.Kills <= last {
			return nil, fmt.Errorf("evolution.tiers: kills must grow, got %d after %d", r.Kills, last)
		}
		last = r.Kills
		out = append(out, engine.Tier{Kills: r.Kills, Piece: piece})
	}
	return out, nil
}

func positive(values map[string]time.Duration) error {
	for key, d := range values {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", key, d)
		}
	}
	return nil
}
