package engine

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
)

const throttleNotice = "Slow down! You can send 3 messages per 10 seconds."

// chatLimiter - лимит сообщений одного игрока
type chatLimiter struct {
	lim *rate.Limiter
}

func newChatLimiter() *chatLimiter {
	every := domain.ChatWindow / domain.ChatMessagesLimit
	return &chatLimiter{lim: rate.NewLimiter(rate.Every(every), domain.ChatMessagesLimit)}
}

func (c *chatLimiter) allow(now time.Time) bool {
	return c.lim.AllowN(now, 1)
}

// Chat рассылает сообщение всем верифицированным. Слишком частые сообщения получают системный ответ,
// сообщения с запрещенными словами отбрасываются.
func (s *GameService) Chat(id domain.OwnerID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[id]
	if !ok || !a.Verified || !a.Identified {
		return
	}

	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > domain.ChatMaxLength {
		return
	}

	lim, ok := s.chatLimiters[id]
	if !ok {
		lim = newChatLimiter()
		s.chatLimiters[id] = lim
	}
	if !lim.allow(s.now()) {
		s.Router.SendTo(id, api.EncodeChat(domain.SystemOwner, throttleNotice))
		return
	}

	if s.filter != nil && s.filter.Blocked(text) {
		logger.Log.WithField("actor", id).Debug("Chat message filtered")
		return
	}

	frame := api.EncodeChat(id, text)
	for _, other := range s.actors {
		if other.Verified {
			s.Router.SendTo(other.ID, frame)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"actor": id,
		"name":  a.Name,
	}).Debug("Chat")
}
