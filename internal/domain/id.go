package domain

import (
	"fmt"
	"strconv"
)

// OwnerID - владелец фигуры. Диапазоны не пересекаются:
// люди, агенты и эскорт различаются только по числу.
type OwnerID uint32

const (
	NeutralOwner OwnerID = 0

	HumanMin OwnerID = 1
	HumanMax OwnerID = 65531

	// Отправитель системных сообщений в чате. Фигур не имеет.
	SystemOwner OwnerID = 65534

	AgentMin  OwnerID = 100000
	AgentMax  OwnerID = 899999
	EscortMin OwnerID = 900000
	EscortMax OwnerID = 999999
)

// OwnerKind - к какому диапазону относится ID
type OwnerKind uint8

const (
	KindNeutral OwnerKind = iota
	KindHuman
	KindAgent
	KindEscort
	KindSystem
	KindInvalid
)

func (id OwnerID) Kind() OwnerKind {
	switch {
	case id == NeutralOwner:
		return KindNeutral
	case id >= HumanMin && id <= HumanMax:
		return KindHuman
	case id == SystemOwner:
		return KindSystem
	case id >= AgentMin && id <= AgentMax:
		return KindAgent
	case id >= EscortMin && id <= EscortMax:
		return KindEscort
	default:
		return KindInvalid
	}
}

func (id OwnerID) IsNeutral() bool { return id == NeutralOwner }
func (id OwnerID) IsHuman() bool   { return id.Kind() == KindHuman }

// IsAutonomous - агент или эскорт (ими управляет контроллер, а не соединение)
func (id OwnerID) IsAutonomous() bool {
	k := id.Kind()
	return k == KindAgent || k == KindEscort
}

// MarshalJSON пишет ID строкой, как и остальные идентификаторы в debug API
func (id OwnerID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

func (id OwnerID) String() string {
	switch id.Kind() {
	case KindNeutral:
		return "neutral"
	case KindAgent:
		return fmt.Sprintf("ai:%d", id)
	case KindEscort:
		return fmt.Sprintf("escort:%d", id)
	default:
		return strconv.FormatUint(uint64(id), 10)
	}
}
