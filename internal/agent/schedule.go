package agent

import (
	"container/heap"
	"time"
)

// decisionItem - элемент очереди решений
type decisionItem struct {
	agent *Agent
	at    time.Time // Когда агент снова думает. Чем раньше, тем выше в куче.
	index int       // Индекс в куче (нужен для Fix/Remove)
}

// decisionQueue реализует heap.Interface. Min-heap по времени следующего решения.
type decisionQueue []*decisionItem

func (q decisionQueue) Len() int { return len(q) }

func (q decisionQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].agent.ID < q[j].agent.ID
	}
	return q[i].at.Before(q[j].at)
}

func (q decisionQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *decisionQueue) Push(x any) {
	item := x.(*decisionItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *decisionQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// Schedule - расписание решений агентов
type Schedule struct {
	q     decisionQueue
	items map[*Agent]*decisionItem
}

func NewSchedule() *Schedule {
	s := &Schedule{items: make(map[*Agent]*decisionItem)}
	heap.Init(&s.q)
	return s
}

func (s *Schedule) Len() int { return s.q.Len() }

// Set ставит агента в очередь или переносит его решение на at
func (s *Schedule) Set(a *Agent, at time.Time) {
	a.NextAt = at
	if item, ok := s.items[a]; ok {
		item.at = at
		heap.Fix(&s.q, item.index)
		return
	}
	item := &decisionItem{agent: a, at: at}
	heap.Push(&s.q, item)
	s.items[a] = item
}

// Remove убирает агента из очереди. Повторный вызов безопасен.
func (s *Schedule) Remove(a *Agent) {
	item, ok := s.items[a]
	if !ok {
		return
	}
	heap.Remove(&s.q, item.index)
	delete(s.items, a)
}

// PopDue снимает с вершины агента, чье время пришло
func (s *Schedule) PopDue(now time.Time) (*Agent, bool) {
	if s.q.Len() == 0 || s.q[0].at.After(now) {
		return nil, false
	}
	item := heap.Pop(&s.q).(*decisionItem)
	delete(s.items, item.agent)
	return item.agent, true
}
