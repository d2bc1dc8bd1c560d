package main

// Selection and scroll tracking for the two-column key table. The
// tracker never renders; it only keeps the selected index inside
// [0, len(groups)) and the scroll offsets consistent with whatever row
// set the renderer produced last.

type keyTable struct {
	groups   []rowGroup
	selected int
	// vscroll is the index of the first visible row group.
	vscroll int
	// hscroll holds per-row horizontal offsets, keyed by row group
	// index. Regenerating rows resets it.
	hscroll map[int]int
}

func newKeyTable() keyTable {
	return keyTable{hscroll: make(map[int]int)}
}

// setGroups swaps in freshly generated rows, clamping the selection by
// best effort and dropping all horizontal offsets.
func (t *keyTable) setGroups(groups []rowGroup) {
	t.groups = groups
	t.hscroll = make(map[int]int)
	t.clamp()
}

// reset moves the selection to the first row, used on tab switches.
func (t *keyTable) reset(groups []rowGroup) {
	t.groups = groups
	t.selected = 0
	t.vscroll = 0
	t.hscroll = make(map[int]int)
}

func (t *keyTable) clamp() {
	if len(t.groups) == 0 {
		t.selected = 0
		t.vscroll = 0
		return
	}
	if t.selected >= len(t.groups) {
		t.selected = len(t.groups) - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
	if t.vscroll > t.selected {
		t.vscroll = t.selected
	}
	if t.vscroll < 0 {
		t.vscroll = 0
	}
}

// next moves the selection down, clamping at the last row.
func (t *keyTable) next(n int) {
	t.selected += n
	t.clamp()
}

// previous moves the selection up, clamping at the first row.
func (t *keyTable) previous(n int) {
	t.selected -= n
	t.clamp()
}

// top and bottom are the explicit wrap jumps to the opposite ends.
func (t *keyTable) top() {
	t.selected = 0
	t.clamp()
}

func (t *keyTable) bottom() {
	t.selected = len(t.groups) - 1
	t.clamp()
}

// scrollRow adjusts the horizontal offset of the selected row.
func (t *keyTable) scrollRow(delta int) {
	if len(t.groups) == 0 {
		return
	}
	offset := t.hscroll[t.selected] + delta
	if offset < 0 {
		offset = 0
	}
	t.hscroll[t.selected] = offset
}

// selectedGroup returns the current row group, or nil when the table
// is empty.
func (t *keyTable) selectedGroup() *rowGroup {
	if len(t.groups) == 0 {
		return nil
	}
	return &t.groups[t.selected]
}

// ensureVisible recomputes the vertical scroll so the selected group
// fits in a window of the given line height, accounting for per-group
// heights and the optional margin line between groups.
func (t *keyTable) ensureVisible(windowLines, margin int) {
	if len(t.groups) == 0 {
		t.vscroll = 0
		return
	}
	if t.vscroll > t.selected {
		t.vscroll = t.selected
	}
	for t.vscroll < t.selected {
		lines := 0
		for i := t.vscroll; i <= t.selected; i++ {
			lines += t.groups[i].height() + margin
		}
		if lines-margin <= windowLines {
			break
		}
		t.vscroll++
	}
}
