package engine

// Stats - сводка для debug-эндпоинтов
type Stats struct {
	Pieces      int    `json:"pieces"`
	Neutral     int    `json:"neutral_pieces"`
	Chunks      int    `json:"chunks"`
	Actors      int    `json:"actors"`
	Agents      int    `json:"agents"`
	Pending     int    `json:"pending_sessions"`
	Neutralize  int    `json:"neutralize_queue"`
	Subscribers int    `json:"subscribers"`
	IndexCells  int    `json:"index_cells"`
	Dropped     uint64 `json:"dropped_frames"`
}

func (s *GameService) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Pieces:      s.World.Len(),
		Neutral:     s.World.NeutralLen(),
		Chunks:      s.World.ChunkCount(),
		Actors:      len(s.actors),
		Agents:      len(s.autonomous),
		Pending:     s.Sessions.Len(),
		Neutralize:  len(s.neutralQueue),
		Subscribers: s.Router.SubscriberCount(),
		IndexCells:  s.Router.IndexCells(),
		Dropped:     s.Router.Dropped(),
	}
}
