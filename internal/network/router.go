package network

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/updogjp/infinichess/internal/domain"
)

// Options - параметры роутера
type Options struct {
	ViewportRadius float64
	ResyncInterval time.Duration
	QueueSize      int
}

func DefaultOptions() Options {
	return Options{
		ViewportRadius: domain.ViewportRadius,
		ResyncInterval: domain.ResyncInterval,
		QueueSize:      256,
	}
}

// viewer - подписчик: личный канал + камера
type viewer struct {
	id       domain.OwnerID
	ch       chan []byte
	camera   domain.Camera
	radius   float64 // ViewportRadius / scale
	hasCam   bool
	span     cellSpan
	lastSync time.Time
}

func (v *viewer) sees(pos domain.Position) bool {
	dx := float64(pos.X) - float64(v.camera.X)
	dy := float64(pos.Y) - float64(v.camera.Y)
	return dx*dx+dy*dy < v.radius*v.radius
}

// Router рассылает изменения мира только тем, чей вьюпорт их накрывает.
// Отправка неблокирующая: медленный клиент теряет сообщения, но не тормозит игру.
type Router struct {
	mu      sync.RWMutex
	opts    Options
	viewers map[domain.OwnerID]*viewer
	index   *viewportIndex
	dropped atomic.Uint64
}

func NewRouter(opts Options) *Router {
	if opts.ViewportRadius <= 0 {
		opts.ViewportRadius = domain.ViewportRadius
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	return &Router{
		opts:    opts,
		viewers: make(map[domain.OwnerID]*viewer),
		index:   newViewportIndex(),
	}
}

// Register создает личный канал для подписчика. Старый канал (если был) закрывается.
func (r *Router) Register(id domain.OwnerID) <-chan []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dropLocked(id)
	v := &viewer{id: id, ch: make(chan []byte, r.opts.QueueSize)}
	r.viewers[id] = v
	return v.ch
}

// Unregister удаляет подписчика и закрывает его канал
func (r *Router) Unregister(id domain.OwnerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(id)
}

func (r *Router) dropLocked(id domain.OwnerID) {
	v, ok := r.viewers[id]
	if !ok {
		return
	}
	if v.hasCam {
		r.index.remove(id, v.span)
	}
	close(v.ch)
	delete(r.viewers, id)
}

// Rekey переносит подписку (канал и камеру) на новый ID. Нужен при resume.
func (r *Router) Rekey(oldID, newID domain.OwnerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.viewers[oldID]
	if !ok {
		return false
	}
	if oldID == newID {
		return true
	}
	r.dropLocked(newID)

	if v.hasCam {
		r.index.remove(oldID, v.span)
	}
	delete(r.viewers, oldID)
	v.id = newID
	r.viewers[newID] = v
	if v.hasCam {
		r.index.add(v, v.span)
	}
	return true
}

// UpdateCamera обновляет вьюпорт. Возвращает true, если пора слать полный снапшот:
// камера зарегистрирована впервые или с прошлого снапшота прошло ResyncInterval.
func (r *Router) UpdateCamera(id domain.OwnerID, cam domain.Camera, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.viewers[id]
	if !ok {
		return false
	}
	first := !v.hasCam
	r.setCameraLocked(v, cam)

	if first || now.Sub(v.lastSync) >= r.opts.ResyncInterval {
		v.lastSync = now
		return true
	}
	return false
}

// JumpCamera - скачок камеры (спавн, респавн, resume). Снапшот обязателен, троттлинг сбрасывается.
func (r *Router) JumpCamera(id domain.OwnerID, cam domain.Camera, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.viewers[id]
	if !ok {
		return false
	}
	r.setCameraLocked(v, cam)
	v.lastSync = now
	return true
}

func (r *Router) setCameraLocked(v *viewer, cam domain.Camera) {
	cam.Scale = domain.ClampScale(cam.Scale)
	if v.hasCam && v.camera == cam {
		return
	}
	radius := r.opts.ViewportRadius / cam.Scale
	span := spanFor(cam, radius)

	if v.hasCam && span != v.span {
		r.index.remove(v.id, v.span)
	}
	if !v.hasCam || span != v.span {
		r.index.add(v, span)
	}
	v.camera = cam
	v.radius = radius
	v.span = span
	v.hasCam = true
}

// Camera возвращает текущую камеру подписчика
func (r *Router) Camera(id domain.OwnerID) (domain.Camera, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.viewers[id]
	if !ok || !v.hasCam {
		return domain.Camera{}, false
	}
	return v.camera, true
}

// Deliver отправляет событие в клетке pos всем, кто ее видит. Возвращает число получателей.
func (r *Router) Deliver(pos domain.Position, frame []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, v := range r.index.at(pos) {
		if v.sees(pos) && r.push(v, frame) {
			n++
		}
	}
	return n
}

// DeliverMove рассылает ход наблюдателям обоих концов. Каждый получает событие один раз.
func (r *Router) DeliverMove(from, to domain.Position, frame []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	sent := make(map[domain.OwnerID]struct{})
	for _, pos := range [2]domain.Position{from, to} {
		for id, v := range r.index.at(pos) {
			if _, done := sent[id]; done || !v.sees(pos) {
				continue
			}
			sent[id] = struct{}{}
			if r.push(v, frame) {
				n++
			}
		}
	}
	return n
}

// SendTo отправляет сообщение конкретному ID (unicast)
func (r *Router) SendTo(id domain.OwnerID, frame []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.viewers[id]
	if !ok {
		return false
	}
	return r.push(v, frame)
}

// Broadcast отправляет всем подписчикам (таблица лидеров, чат, нейтрализация)
func (r *Router) Broadcast(frame []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, v := range r.viewers {
		if r.push(v, frame) {
			n++
		}
	}
	return n
}

func (r *Router) push(v *viewer, frame []byte) bool {
	select {
	case v.ch <- frame:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Sees - видит ли подписчик клетку (для тестов и debug)
func (r *Router) Sees(id domain.OwnerID, pos domain.Position) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.viewers[id]
	return ok && v.hasCam && v.sees(pos)
}

// HasSubscriber проверяет, подключен ли ID
func (r *Router) HasSubscriber(id domain.OwnerID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.viewers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (r *Router) SubscriberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.viewers)
}

// Dropped - сколько сообщений выброшено из-за переполненных очередей
func (r *Router) Dropped() uint64 {
	return r.dropped.Load()
}

// IndexCells - размер индекса вьюпортов (debug)
func (r *Router) IndexCells() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index.size()
}
