package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/time/rate"
)

// Сколько живет лимитер неактивного IP
const ipLimiterTTL = 10 * time.Minute

// IPLimiter ограничивает частоту апгрейдов и число соединений с одного адреса.
// Лимитеры живут в ristretto с TTL, чтобы не копить адреса вечно.
type IPLimiter struct {
	limiters *ristretto.Cache[string, *rate.Limiter]
	every    rate.Limit
	burst    int

	maxConns int
	mu       sync.Mutex
	conns    map[string]int
}

func NewIPLimiter(perSecond float64, burst, maxConns int) (*IPLimiter, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *rate.Limiter]{
		NumCounters: 100_000,
		MaxCost:     10_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &IPLimiter{
		limiters: cache,
		every:    rate.Limit(perSecond),
		burst:    burst,
		maxConns: maxConns,
		conns:    make(map[string]int),
	}, nil
}

// Allow - можно ли этому адресу открыть еще одно соединение сейчас
func (l *IPLimiter) Allow(ip string) bool {
	lim, ok := l.limiters.Get(ip)
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters.SetWithTTL(ip, lim, 1, ipLimiterTTL)
		l.limiters.Wait()
	}
	return lim.Allow()
}

// Acquire занимает слот соединения. release нужно вызвать при закрытии.
func (l *IPLimiter) Acquire(ip string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxConns > 0 && l.conns[ip] >= l.maxConns {
		return nil, false
	}
	l.conns[ip]++

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.conns[ip]--; l.conns[ip] <= 0 {
				delete(l.conns, ip)
			}
		})
	}, true
}

func (l *IPLimiter) Close() {
	l.limiters.Close()
}

// clientIP - адрес клиента. Заголовки прокси учитываются только если им доверяем.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := strings.TrimSpace(r.Header.Get("cf-connecting-ip")); ip != "" {
			return ip
		}
		if fwd := r.Header.Get("x-forwarded-for"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
