package session

import "github.com/beka-birhanu/vinom-mines/game"

// snapshot is one history entry: an independent copy of the visibility matrix
// and whether the game was lost at that point.
type snapshot struct {
	view game.VisibilityMatrix
	lost bool
}

// history is a LIFO stack of snapshots.
type history struct {
	entries []snapshot
}

func (h *history) push(s snapshot) {
	h.entries = append(h.entries, s)
}

// pop removes and returns the most recent snapshot.
func (h *history) pop() (snapshot, bool) {
	if len(h.entries) == 0 {
		return snapshot{}, false
	}
	lastIndex := len(h.entries) - 1
	popped := h.entries[lastIndex]
	h.entries[lastIndex] = snapshot{}
	h.entries = h.entries[:lastIndex]
	return popped, true
}

func (h *history) clear() {
	h.entries = nil
}

func (h *history) len() int {
	return len(h.entries)
}
