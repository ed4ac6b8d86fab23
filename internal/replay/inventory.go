package replay

import "sort"

// InventorySlots is the number of item slots reported for a participant
const InventorySlots = 7

type ledgerAction struct {
	kind   EventKind // KindItemPurchased or KindItemSold
	itemID int
}

type inventoryCheckpoint struct {
	timestamp int
	items     []int
}

// Ledger answers point-in-time inventory queries for every participant. It is
// built by a single fold over the ordered event stream; each applied mutation
// produces a new immutable checkpoint, so queries at any instant are exact.
type Ledger struct {
	checkpoints map[int][]inventoryCheckpoint
	history     map[int][]ledgerAction
}

// ReplayInventories folds the item events of the stream into a Ledger.
// Events must already be in non-decreasing timestamp order (CollectEvents
// guarantees this). Anomalies are counted in diag and never abort the fold.
func ReplayInventories(events []Event, reg *Registry, diag *Diagnostics) *Ledger {
	l := &Ledger{
		checkpoints: make(map[int][]inventoryCheckpoint, reg.Len()),
		history:     make(map[int][]ledgerAction, reg.Len()),
	}

	current := make(map[int][]int, reg.Len())
	for _, id := range reg.IDs() {
		current[id] = nil
	}

	for _, ev := range events {
		switch ev.Kind {
		case KindItemPurchased, KindItemSold, KindItemDestroyed, KindItemUndo:
		default:
			continue
		}

		if _, ok := reg.Get(ev.ParticipantID); !ok {
			diag.MissingParticipants++
			continue
		}

		if l.apply(current, ev, diag) {
			l.checkpoint(ev.ParticipantID, ev.Timestamp, current[ev.ParticipantID])
		}
	}

	return l
}

// apply mutates the working inventory for one event and reports whether the
// state changed.
func (l *Ledger) apply(current map[int][]int, ev Event, diag *Diagnostics) bool {
	pid := ev.ParticipantID
	items := current[pid]

	switch ev.Kind {
	case KindItemPurchased:
		current[pid] = append(items, ev.ItemID)
		l.history[pid] = append(l.history[pid], ledgerAction{KindItemPurchased, ev.ItemID})
		return true

	case KindItemSold:
		if !removeFirst(&items, ev.ItemID) {
			// Stale id in the source data, not an error
			return false
		}
		current[pid] = items
		l.history[pid] = append(l.history[pid], ledgerAction{KindItemSold, ev.ItemID})
		return true

	case KindItemDestroyed:
		if !removeFirst(&items, ev.ItemID) {
			return false
		}
		current[pid] = items
		return true

	case KindItemUndo:
		hist := l.history[pid]
		if len(hist) == 0 || hist[len(hist)-1].itemID != ev.ItemID {
			// Only the most recently applied purchase/sell can be undone
			diag.UnmatchedUndos++
			return false
		}
		last := hist[len(hist)-1]
		l.history[pid] = hist[:len(hist)-1]

		if last.kind == KindItemPurchased {
			removeLast(&items, ev.ItemID)
		} else {
			items = append(items, ev.ItemID)
		}
		current[pid] = items
		return true
	}
	return false
}

// checkpoint records an immutable snapshot of the participant's inventory
func (l *Ledger) checkpoint(pid, ts int, items []int) {
	snapshot := make([]int, len(items))
	copy(snapshot, items)
	l.checkpoints[pid] = append(l.checkpoints[pid], inventoryCheckpoint{timestamp: ts, items: snapshot})
}

// ItemsAt returns the inventory held by the participant at the given instant.
// The returned slice is a copy; an unknown participant or an instant before
// any mutation yields an empty inventory.
func (l *Ledger) ItemsAt(pid, ts int) []int {
	cps := l.checkpoints[pid]
	// First checkpoint after ts; the one before it holds at ts
	idx := sort.Search(len(cps), func(i int) bool { return cps[i].timestamp > ts })
	if idx == 0 {
		return nil
	}
	items := make([]int, len(cps[idx-1].items))
	copy(items, cps[idx-1].items)
	return items
}

// PaddedItemsAt returns the inventory at the instant padded or truncated to
// exactly InventorySlots entries, empty slots as 0.
func (l *Ledger) PaddedItemsAt(pid, ts int) []int {
	items := l.ItemsAt(pid, ts)
	padded := make([]int, InventorySlots)
	copy(padded, items)
	return padded
}

// removeFirst removes the first occurrence of item, reporting success
func removeFirst(items *[]int, item int) bool {
	for i, v := range *items {
		if v == item {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return true
		}
	}
	return false
}

// removeLast removes the most recent occurrence of item
func removeLast(items *[]int, item int) {
	for i := len(*items) - 1; i >= 0; i-- {
		if (*items)[i] == item {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return
		}
	}
}
