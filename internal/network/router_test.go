package network

import (
	"testing"
	"time"

	"github.com/updogjp/infinichess/internal/domain"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func drain(ch <-chan []byte) int {
	n := 0
	for {
		select {
		case <-ch:
			n++
		default:
			return n
		}
	}
}

func TestRouter_InterestFiltering(t *testing.T) {
	r := NewRouter(DefaultOptions())
	ch := r.Register(1)
	r.UpdateCamera(1, domain.Camera{X: 0, Y: 0, Scale: 1}, t0)

	if n := r.Deliver(domain.Position{X: 10, Y: 0}, []byte("near")); n != 1 {
		t.Errorf("event at distance 10 delivered to %d viewers, want 1", n)
	}
	if n := r.Deliver(domain.Position{X: 200, Y: 0}, []byte("far")); n != 0 {
		t.Errorf("event at distance 200 delivered to %d viewers, want 0", n)
	}
	// Граница строгая: ровно радиус - не видно
	if r.Sees(1, domain.Position{X: 50, Y: 0}) {
		t.Error("square exactly at the radius must not be visible")
	}
	if got := drain(ch); got != 1 {
		t.Errorf("queue holds %d frames, want 1", got)
	}
}

func TestRouter_ScaleChangesRadius(t *testing.T) {
	r := NewRouter(DefaultOptions())
	r.Register(1)

	r.UpdateCamera(1, domain.Camera{Scale: 2}, t0) // радиус 25
	if r.Sees(1, domain.Position{X: 30}) {
		t.Error("zoomed in camera should not see distance 30")
	}

	r.UpdateCamera(1, domain.Camera{Scale: 0.5}, t0) // радиус 100
	if !r.Sees(1, domain.Position{X: 90}) {
		t.Error("zoomed out camera should see distance 90")
	}

	// Мусорный масштаб клампится, а не ломает индекс
	r.UpdateCamera(1, domain.Camera{Scale: 0.0001}, t0)
	cam, _ := r.Camera(1)
	if cam.Scale != domain.MinCameraScale {
		t.Errorf("scale = %v, want clamp to %v", cam.Scale, domain.MinCameraScale)
	}
}

func TestRouter_NoCameraNoWorldEvents(t *testing.T) {
	r := NewRouter(DefaultOptions())
	ch := r.Register(1)

	if n := r.Deliver(domain.Position{}, []byte("x")); n != 0 {
		t.Errorf("viewer without camera received %d events", n)
	}
	if !r.SendTo(1, []byte("direct")) {
		t.Error("unicast must work without camera")
	}
	if drain(ch) != 1 {
		t.Error("expected exactly the unicast frame")
	}
}

func TestRouter_ResyncThrottle(t *testing.T) {
	r := NewRouter(DefaultOptions())
	r.Register(1)

	if !r.UpdateCamera(1, domain.Camera{Scale: 1}, t0) {
		t.Fatal("first camera registration must trigger a snapshot")
	}
	if r.UpdateCamera(1, domain.Camera{X: 5, Scale: 1}, t0.Add(300*time.Millisecond)) {
		t.Error("resync within the interval must be suppressed")
	}
	// Камера все равно обновилась
	if !r.Sees(1, domain.Position{X: 54}) {
		t.Error("camera center should follow updates even when resync is throttled")
	}
	if !r.UpdateCamera(1, domain.Camera{X: 6, Scale: 1}, t0.Add(time.Second)) {
		t.Error("resync after the interval must be allowed")
	}

	// Скачок камеры всегда требует снапшот и сбрасывает интервал
	if !r.JumpCamera(1, domain.Camera{X: 1000, Scale: 1}, t0.Add(1100*time.Millisecond)) {
		t.Error("jump must always resync")
	}
	if r.UpdateCamera(1, domain.Camera{X: 1001, Scale: 1}, t0.Add(1200*time.Millisecond)) {
		t.Error("resync right after a jump must be throttled")
	}
}

func TestRouter_MoveDeliveredOncePerViewer(t *testing.T) {
	r := NewRouter(DefaultOptions())
	both := r.Register(1)
	farSide := r.Register(2)
	r.UpdateCamera(1, domain.Camera{X: 0, Scale: 1}, t0)
	r.UpdateCamera(2, domain.Camera{X: 60, Scale: 1}, t0)

	// Ход от 0 до 20: первый видит оба конца, второй - только конец
	n := r.DeliverMove(domain.Position{X: 0}, domain.Position{X: 20}, []byte("m"))
	if n != 2 {
		t.Errorf("move delivered %d times, want 2", n)
	}
	if drain(both) != 1 || drain(farSide) != 1 {
		t.Error("each viewer must receive the move exactly once")
	}
}

func TestRouter_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	r := NewRouter(Options{QueueSize: 2})
	r.Register(1)
	r.UpdateCamera(1, domain.Camera{Scale: 1}, t0)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			r.Deliver(domain.Position{}, []byte{byte(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Deliver blocked on a full queue")
	}
	if r.Dropped() != 8 {
		t.Errorf("Dropped() = %d, want 8", r.Dropped())
	}
}

func TestRouter_RegisterUnregisterRekey(t *testing.T) {
	r := NewRouter(DefaultOptions())
	old := r.Register(1)
	r.UpdateCamera(1, domain.Camera{Scale: 1}, t0)

	// Повторная регистрация закрывает старый канал
	fresh := r.Register(1)
	if _, ok := <-old; ok {
		t.Error("old channel should be closed")
	}
	r.UpdateCamera(1, domain.Camera{Scale: 1}, t0)

	if !r.Rekey(1, 42) {
		t.Fatal("Rekey failed")
	}
	if r.HasSubscriber(1) || !r.HasSubscriber(42) {
		t.Error("subscription was not moved to the new id")
	}
	if r.Deliver(domain.Position{X: 3}, []byte("x")) != 1 {
		t.Error("rekeyed viewer should keep its camera")
	}
	if drain(fresh) != 1 {
		t.Error("rekeyed viewer should keep its channel")
	}

	r.Unregister(42)
	if _, ok := <-fresh; ok {
		t.Error("channel should be closed after Unregister")
	}
	if r.SubscriberCount() != 0 || r.IndexCells() != 0 {
		t.Errorf("leftovers: subscribers=%d cells=%d", r.SubscriberCount(), r.IndexCells())
	}
	if r.Rekey(7, 8) {
		t.Error("Rekey of unknown id must fail")
	}
}
