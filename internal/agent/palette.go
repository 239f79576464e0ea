package agent

import (
	"fmt"

	"github.com/updogjp/infinichess/internal/domain"
)

// Пастельная палитра агентов
var palette = []domain.Color{
	{R: 255, G: 179, B: 186}, // розовый
	{R: 186, G: 255, B: 201}, // мятный
	{R: 186, G: 225, B: 255}, // голубой
	{R: 255, G: 255, B: 186}, // желтый
	{R: 255, G: 186, B: 243}, // пурпурный
	{R: 186, G: 255, B: 255}, // бирюзовый
	{R: 255, G: 217, B: 186}, // персиковый
	{R: 231, G: 186, B: 255}, // сиреневый
}

func colorFor(id domain.OwnerID) domain.Color {
	return palette[int(id)%len(palette)]
}

func nameFor(id domain.OwnerID) string {
	if id.Kind() == domain.KindEscort {
		return fmt.Sprintf("Escort_%d", id)
	}
	return fmt.Sprintf("AI_%d", id)
}
