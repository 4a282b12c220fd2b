package editor

// History is a linear undo/redo log of full-text snapshots. Snapshots are
// never amended in place: every Commit appends, and committing after an
// undo discards the redo suffix.
type History struct {
	snapshots []string
	index     int
}

// NewHistory starts a history whose only snapshot is initial.
func NewHistory(initial string) *History {
	return &History{snapshots: []string{initial}}
}

// Commit records text as the newest snapshot, dropping anything after the
// current index.
func (h *History) Commit(text string) {
	h.snapshots = append(h.snapshots[:h.index+1], text)
	h.index = len(h.snapshots) - 1
}

// Travel moves the index to i. Out-of-range indexes are ignored and report
// false.
func (h *History) Travel(i int) bool {
	if i < 0 || i >= len(h.snapshots) {
		return false
	}
	h.index = i
	return true
}

// Undo steps back one snapshot.
func (h *History) Undo() bool { return h.Travel(h.index - 1) }

// Redo steps forward one snapshot.
func (h *History) Redo() bool { return h.Travel(h.index + 1) }

// Current returns the snapshot at the current index.
func (h *History) Current() string {
	return h.snapshots[h.index]
}

// Reset replaces the whole history with a single snapshot.
func (h *History) Reset(text string) {
	h.snapshots = []string{text}
	h.index = 0
}

// Index returns the current position.
func (h *History) Index() int { return h.index }

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// CanUndo reports whether Undo would move.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would move.
func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }
