package session

// BestStore persists the best WPM. Implementations absorb their own
// failures; a broken store reads as 0 and ignores saves.
type BestStore interface {
	LoadBestWPM() float64
	// SaveBestWPM overwrites the stored value only when wpm is strictly greater.
	SaveBestWPM(wpm int)
}

// MemoryBest keeps the best score in memory.
type MemoryBest struct {
	best float64
}

// NewMemoryBest returns a store seeded with initial.
func NewMemoryBest(initial float64) *MemoryBest {
	return &MemoryBest{best: initial}
}

// LoadBestWPM implements BestStore.
func (m *MemoryBest) LoadBestWPM() float64 {
	return m.best
}

// SaveBestWPM implements BestStore.
func (m *MemoryBest) SaveBestWPM(wpm int) {
	if float64(wpm) > m.best {
		m.best = float64(wpm)
	}
}
