package version

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Service - имя сервиса в логах и /version
const Service = "infinichess"

// Заполняются через -ldflags "-X github.com/updogjp/infinichess/internal/version.Date=...".
// Пустые Date и Commit берутся из vcs-меток Go toolchain.
var (
	Date   string // YYYY-MM-DD (UTC)
	Commit string
	Branch string
	CI     string
)

// Сборка N - N-й день после запуска проекта
var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

var started = time.Now()

var ErrNoDate = errors.New("build date is unknown")

// Build - метаданные сборки и процесса
type Build struct {
	Service   string    `json:"service"`
	Number    int       `json:"build"`
	Date      string    `json:"date,omitempty"`
	Commit    string    `json:"commit,omitempty"`
	Branch    string    `json:"branch,omitempty"`
	CI        string    `json:"ci,omitempty"`
	Modified  bool      `json:"modified,omitempty"`
	GoVersion string    `json:"go"`
	Started   time.Time `json:"started"`
	Uptime    string    `json:"uptime"`
	Error     string    `json:"error,omitempty"`
}

// DayNumber - номер сборки для даты YYYY-MM-DD
func DayNumber(date string) (int, error) {
	if date == "" {
		return 0, ErrNoDate
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("bad build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s predates %s", date, epoch.Format(time.DateOnly))
	}
	return int(t.Sub(epoch) / (24 * time.Hour)), nil
}

// Current собирает данные о текущем бинаре
func Current() Build {
	b := Build{
		Service:   Service,
		Date:      Date,
		Commit:    Commit,
		Branch:    Branch,
		CI:        CI,
		GoVersion: runtime.Version(),
		Started:   started,
		Uptime:    time.Since(started).Round(time.Second).String(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		b.fillFromVCS(bi.Settings)
	}

	n, err := DayNumber(b.Date)
	if err != nil {
		b.Error = err.Error()
		return b
	}
	b.Number = n
	return b
}

// fillFromVCS дополняет то, что не пришло через ldflags
func (b *Build) fillFromVCS(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if b.Date != "" {
				continue
			}
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				b.Date = t.UTC().Format(time.DateOnly)
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func (b Build) String() string {
	if b.Error != "" {
		return fmt.Sprintf("%s build unknown (%s) %s", b.Service, b.Error, b.GoVersion)
	}
	commit := orDefault(b.Commit, "unknown")
	if b.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s build %d (%s) commit %s branch %s ci %s %s",
		b.Service, b.Number, b.Date, commit,
		orDefault(b.Branch, "unknown"), orDefault(b.CI, "local"), b.GoVersion)
}

// String - одна строка для лога старта
func String() string {
	return Current().String()
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
