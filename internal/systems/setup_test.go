package systems

import (
	"os"
	"testing"

	"github.com/updogjp/infinichess/pkg/logger"
)

func TestMain(m *testing.M) {
	// Глобальный логгер нужен до запуска тестов
	logger.Init()

	os.Exit(m.Run())
}
