package replay

import (
	"reflect"
	"testing"
)

func itemEvent(kind EventKind, ts, pid, itemID int) Event {
	return Event{Kind: kind, Timestamp: ts, ParticipantID: pid, ItemID: itemID}
}

func TestReplayInventoriesPurchase(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
		itemEvent(KindItemPurchased, 120000, 1, 1036),
		itemEvent(KindItemPurchased, 120000, 2, 1054),
	}
	ledger := ReplayInventories(events, reg, &diag)

	got := ledger.ItemsAt(1, 130000)
	want := []int{1055, 1036}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt(1, 130000) = %v, want %v", got, want)
	}

	// Before any mutation the inventory is empty
	if got := ledger.ItemsAt(1, 59999); len(got) != 0 {
		t.Errorf("ItemsAt(1, 59999) = %v, want empty", got)
	}

	// Between checkpoints the earlier state holds
	got = ledger.ItemsAt(1, 90000)
	want = []int{1055}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt(1, 90000) = %v, want %v", got, want)
	}

	if diag != (Diagnostics{}) {
		t.Errorf("diagnostics = %+v, want zero", diag)
	}
}

func TestReplayInventoriesSell(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
		itemEvent(KindItemPurchased, 70000, 1, 1036),
		itemEvent(KindItemSold, 300000, 1, 1055),
	}
	ledger := ReplayInventories(events, reg, &diag)

	got := ledger.ItemsAt(1, 300000)
	want := []int{1036}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt after sell = %v, want %v", got, want)
	}
}

func TestSellAbsentItemIsNoOp(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
		itemEvent(KindItemSold, 70000, 1, 9999),
	}
	ledger := ReplayInventories(events, reg, &diag)

	got := ledger.ItemsAt(1, 80000)
	want := []int{1055}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt after no-op sell = %v, want %v", got, want)
	}
	if diag.UnmatchedUndos != 0 {
		t.Errorf("UnmatchedUndos = %d, want 0", diag.UnmatchedUndos)
	}
}

func TestUndoRevertsPurchase(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
		itemEvent(KindItemPurchased, 65000, 1, 3340),
		itemEvent(KindItemUndo, 66000, 1, 3340),
	}
	ledger := ReplayInventories(events, reg, &diag)

	got := ledger.ItemsAt(1, 70000)
	want := []int{1055}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt after undo = %v, want %v", got, want)
	}
	if diag.UnmatchedUndos != 0 {
		t.Errorf("UnmatchedUndos = %d, want 0", diag.UnmatchedUndos)
	}
}

func TestUndoRevertsSell(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
		itemEvent(KindItemSold, 65000, 1, 1055),
		itemEvent(KindItemUndo, 66000, 1, 1055),
	}
	ledger := ReplayInventories(events, reg, &diag)

	got := ledger.ItemsAt(1, 70000)
	want := []int{1055}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt after sell undo = %v, want %v", got, want)
	}
}

func TestUnmatchedUndoCountedAndIgnored(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
		itemEvent(KindItemUndo, 61000, 1, 3340), // does not match the last purchase
	}
	ledger := ReplayInventories(events, reg, &diag)

	got := ledger.ItemsAt(1, 70000)
	want := []int{1055}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsAt after unmatched undo = %v, want %v", got, want)
	}
	if diag.UnmatchedUndos != 1 {
		t.Errorf("UnmatchedUndos = %d, want 1", diag.UnmatchedUndos)
	}
}

func TestUndoWithEmptyHistory(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemUndo, 60000, 1, 1055),
	}
	ledger := ReplayInventories(events, reg, &diag)

	if got := ledger.ItemsAt(1, 70000); len(got) != 0 {
		t.Errorf("ItemsAt = %v, want empty", got)
	}
	if diag.UnmatchedUndos != 1 {
		t.Errorf("UnmatchedUndos = %d, want 1", diag.UnmatchedUndos)
	}
}

func TestDestroyRemovesWithoutHistory(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 2003),
		itemEvent(KindItemPurchased, 61000, 1, 1055),
		itemEvent(KindItemDestroyed, 200000, 1, 2003),
		// Undo still reverts the 1055 purchase, not the destroy
		itemEvent(KindItemUndo, 201000, 1, 1055),
	}
	ledger := ReplayInventories(events, reg, &diag)

	if got := ledger.ItemsAt(1, 210000); len(got) != 0 {
		t.Errorf("ItemsAt = %v, want empty", got)
	}
	if diag.UnmatchedUndos != 0 {
		t.Errorf("UnmatchedUndos = %d, want 0", diag.UnmatchedUndos)
	}
}

func TestUnknownParticipantEventCounted(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 42, 1055),
	}
	ReplayInventories(events, reg, &diag)

	if diag.MissingParticipants != 1 {
		t.Errorf("MissingParticipants = %d, want 1", diag.MissingParticipants)
	}
}

func TestPaddedItemsAt(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
		itemEvent(KindItemPurchased, 61000, 1, 2003),
	}
	ledger := ReplayInventories(events, reg, &diag)

	got := ledger.PaddedItemsAt(1, 70000)
	want := []int{1055, 2003, 0, 0, 0, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PaddedItemsAt = %v, want %v", got, want)
	}

	// Unknown participant still gets a full row of empty slots
	got = ledger.PaddedItemsAt(42, 70000)
	if len(got) != InventorySlots {
		t.Errorf("PaddedItemsAt(42) has %d slots, want %d", len(got), InventorySlots)
	}
}

func TestItemsAtReturnsCopy(t *testing.T) {
	reg := newTestRegistry(t)
	var diag Diagnostics

	events := []Event{
		itemEvent(KindItemPurchased, 60000, 1, 1055),
	}
	ledger := ReplayInventories(events, reg, &diag)

	first := ledger.ItemsAt(1, 70000)
	first[0] = 9999
	second := ledger.ItemsAt(1, 70000)
	if second[0] != 1055 {
		t.Errorf("ItemsAt mutated by caller: got %v", second)
	}
}
