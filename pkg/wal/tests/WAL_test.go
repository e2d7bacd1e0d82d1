package waltests

import "testing"

import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/wal"


func SetupMockWAL(t *testing.T) *wal.WAL {
	nodeWAL, walErr := wal.NewWAL(t.TempDir())
	if walErr != nil { t.Fatalf("unable to create or open WAL: %s", walErr.Error()) }

	t.Cleanup(func() { nodeWAL.Close() })

	return nodeWAL
}

func mockEntry(index int64, term int64) *log.LogEntry {
	return &log.LogEntry{
		Index: index,
		Term: term,
		EntryType: log.EntryCommand,
		Command: record.Record{ ValueType: record.ProcessInstanceValue, Intent: record.ElementActivating },
	}
}

func TestAppendAndRead(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	appendErr := nodeWAL.Append(mockEntry(0, 1))
	if appendErr != nil { t.Errorf("error on appending entry: %s", appendErr.Error()) }

	entry, readErr := nodeWAL.Read(0)
	if readErr != nil { t.Errorf("error on reading entry: %s", readErr.Error()) }

	t.Logf("actual entry: %v\n", entry)

	if entry == nil || entry.Index != 0 || entry.Term != 1 {
		t.Errorf("actual entry not equal to expected: actual(%v), expected(index 0, term 1)\n", entry)
	}
}

func TestReadMissingIndex(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	entry, readErr := nodeWAL.Read(42)
	if readErr != nil { t.Errorf("error on reading entry: %s", readErr.Error()) }

	if entry != nil {
		t.Errorf("actual entry not equal to expected: actual(%v), expected(nil)\n", entry)
	}
}

func TestRangeAppendAndGetRange(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	entries := []*log.LogEntry{
		mockEntry(0, 1), mockEntry(1, 1), mockEntry(2, 1), mockEntry(3, 2), mockEntry(4, 2),
	}

	appendErr := nodeWAL.RangeAppend(entries)
	if appendErr != nil { t.Errorf("error on range appending entries: %s", appendErr.Error()) }

	readEntries, rangeErr := nodeWAL.GetRange(1, 3)
	if rangeErr != nil { t.Errorf("error on reading range: %s", rangeErr.Error()) }

	expectedTotal := 3

	t.Logf("actual total in range: %d, expected total in range: %d\n", len(readEntries), expectedTotal)
	if len(readEntries) != expectedTotal {
		t.Errorf("actual total in range not equal to expected: actual(%d), expected(%d)\n", len(readEntries), expectedTotal)
	}

	if readEntries[0].Index != 1 || readEntries[2].Index != 3 {
		t.Errorf("actual range bounds not equal to expected: actual(%d, %d), expected(1, 3)\n", readEntries[0].Index, readEntries[2].Index)
	}
}

func TestGetLatest(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	entries := []*log.LogEntry{ mockEntry(0, 1), mockEntry(1, 1), mockEntry(2, 3) }

	appendErr := nodeWAL.RangeAppend(entries)
	if appendErr != nil { t.Errorf("error on range appending entries: %s", appendErr.Error()) }

	latest, latestErr := nodeWAL.GetLatest()
	if latestErr != nil { t.Errorf("error on reading latest entry: %s", latestErr.Error()) }

	t.Logf("actual latest: %v\n", latest)

	if latest == nil || latest.Index != 2 || latest.Term != 3 {
		t.Errorf("actual latest not equal to expected: actual(%v), expected(index 2, term 3)\n", latest)
	}
}

func TestTruncateFrom(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	entries := []*log.LogEntry{
		mockEntry(0, 1), mockEntry(1, 1), mockEntry(2, 1), mockEntry(3, 1), mockEntry(4, 1),
	}

	appendErr := nodeWAL.RangeAppend(entries)
	if appendErr != nil { t.Errorf("error on range appending entries: %s", appendErr.Error()) }

	truncateErr := nodeWAL.TruncateFrom(2)
	if truncateErr != nil { t.Errorf("error on truncating log: %s", truncateErr.Error()) }

	total, totalErr := nodeWAL.GetTotal()
	if totalErr != nil { t.Errorf("error on getting total: %s", totalErr.Error()) }

	expectedTotal := 2

	t.Logf("actual total: %d, expected total: %d\n", total, expectedTotal)
	if total != expectedTotal {
		t.Errorf("actual total not equal to expected: actual(%d), expected(%d)\n", total, expectedTotal)
	}

	latest, latestErr := nodeWAL.GetLatest()
	if latestErr != nil { t.Errorf("error on reading latest entry: %s", latestErr.Error()) }

	if latest == nil || latest.Index != 1 {
		t.Errorf("actual latest not equal to expected: actual(%v), expected(index 1)\n", latest)
	}
}

func TestDeleteUpTo(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	entries := []*log.LogEntry{
		mockEntry(0, 1), mockEntry(1, 1), mockEntry(2, 1), mockEntry(3, 1), mockEntry(4, 1),
	}

	appendErr := nodeWAL.RangeAppend(entries)
	if appendErr != nil { t.Errorf("error on range appending entries: %s", appendErr.Error()) }

	deleteErr := nodeWAL.DeleteUpTo(2)
	if deleteErr != nil { t.Errorf("error on compacting log: %s", deleteErr.Error()) }

	compacted, readErr := nodeWAL.Read(2)
	if readErr != nil { t.Errorf("error on reading entry: %s", readErr.Error()) }

	if compacted != nil {
		t.Errorf("actual compacted entry not equal to expected: actual(%v), expected(nil)\n", compacted)
	}

	kept, keptErr := nodeWAL.Read(3)
	if keptErr != nil { t.Errorf("error on reading entry: %s", keptErr.Error()) }

	if kept == nil || kept.Index != 3 {
		t.Errorf("actual kept entry not equal to expected: actual(%v), expected(index 3)\n", kept)
	}
}

func TestTermAt(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	entries := []*log.LogEntry{ mockEntry(0, 1), mockEntry(1, 2), mockEntry(2, 2) }

	appendErr := nodeWAL.RangeAppend(entries)
	if appendErr != nil { t.Errorf("error on range appending entries: %s", appendErr.Error()) }

	term, termErr := nodeWAL.TermAt(1)
	if termErr != nil { t.Errorf("error on reading term: %s", termErr.Error()) }

	expectedTerm := int64(2)

	t.Logf("actual term: %d, expected term: %d\n", term, expectedTerm)
	if term != expectedTerm {
		t.Errorf("actual term not equal to expected: actual(%d), expected(%d)\n", term, expectedTerm)
	}
}

func TestDurableStateRoundtrip(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	setErr := nodeWAL.SetDurableState(wal.DurableState{ CurrentTerm: 7, VotedFor: "flowsrv2" })
	if setErr != nil { t.Errorf("error on persisting durable state: %s", setErr.Error()) }

	durableState, getErr := nodeWAL.GetDurableState()
	if getErr != nil { t.Errorf("error on reading durable state: %s", getErr.Error()) }

	t.Logf("actual durable state: %v\n", durableState)

	if durableState == nil || durableState.CurrentTerm != 7 || durableState.VotedFor != "flowsrv2" {
		t.Errorf("actual durable state not equal to expected: actual(%v), expected(term 7, voted for flowsrv2)\n", durableState)
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	nodeWAL := SetupMockWAL(t)

	setErr := nodeWAL.SetSnapshot(&wal.SnapshotEntry{ LastIncludedIndex: 9, LastIncludedTerm: 3, Data: []byte("statedata") })
	if setErr != nil { t.Errorf("error on persisting snapshot: %s", setErr.Error()) }

	snapshot, getErr := nodeWAL.GetSnapshot()
	if getErr != nil { t.Errorf("error on reading snapshot: %s", getErr.Error()) }

	t.Logf("actual snapshot: %v\n", snapshot)

	if snapshot == nil || snapshot.LastIncludedIndex != 9 || snapshot.LastIncludedTerm != 3 || string(snapshot.Data) != "statedata" {
		t.Errorf("actual snapshot not equal to expected: actual(%v), expected(index 9, term 3, statedata)\n", snapshot)
	}
}
