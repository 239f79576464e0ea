package engine

import (
	"sort"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/pkg/api"
)

// FlushLeaderboard рассылает таблицу, если она менялась с прошлого раза
func (s *GameService) FlushLeaderboard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.boardDirty {
		return false
	}
	s.boardDirty = false
	s.Router.Broadcast(s.leaderboardFrame())
	return true
}

// Leaderboard - верхние LeaderboardSize строк и число людей онлайн
func (s *GameService) Leaderboard() (int, []api.LeaderboardEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actors), s.leaderboardLocked()
}

func (s *GameService) leaderboardFrame() []byte {
	return api.EncodeLeaderboard(len(s.actors), s.leaderboardLocked())
}

func (s *GameService) leaderboardLocked() []api.LeaderboardEntry {
	entries := make([]api.LeaderboardEntry, 0, len(s.scores)+len(s.offline))
	seen := make(map[domain.OwnerID]struct{}, len(s.scores))

	for id, kills := range s.scores {
		name, ok := s.nameLocked(id)
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, api.LeaderboardEntry{Owner: id, Kills: kills, Name: name})
	}
	for id, e := range s.offline {
		if _, dup := seen[id]; dup || e.kills <= 0 {
			continue
		}
		entries = append(entries, api.LeaderboardEntry{Owner: id, Kills: e.kills, Name: e.name})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kills != entries[j].Kills {
			return entries[i].Kills > entries[j].Kills
		}
		return entries[i].Owner < entries[j].Owner
	})

	if limit := s.cfg.LeaderboardSize; limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// nameLocked - имя владельца: подключенный, ожидающий или агент
func (s *GameService) nameLocked(id domain.OwnerID) (string, bool) {
	if a, ok := s.actors[id]; ok {
		if !a.Identified {
			return "", false
		}
		return a.Name, true
	}
	if ag, ok := s.autonomous[id]; ok {
		return ag.name, true
	}
	if rec, ok := s.Sessions.Lookup(id); ok {
		return rec.Name, true
	}
	return "", false
}
