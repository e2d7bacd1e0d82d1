package streamtests

import "sort"
import "testing"

import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/record"


func TestApplySkipsAlreadyAppliedEntries(t *testing.T) {
	engine := SetupMockEngine(t)
	engine.Deploy(t, orderProcess())
	engine.CreateInstance(t, "order-process", nil)

	exportedBefore := len(engine.Exported)

	value := &record.ProcessInstanceRecordValue{ ElementId: "order-process", ElementType: record.ProcessElement }

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, record.ElementActivating, 0, value)
	if recErr != nil { t.Fatalf("error on building record: %s", recErr.Error()) }

	replayed := &log.LogEntry{
		Index: engine.Stream.LastApplied(),
		Term: 1,
		EntryType: log.EntryCommand,
		Command: *rec,
	}

	applyErr := engine.Stream.Apply(replayed)
	if applyErr != nil { t.Fatalf("error on applying replayed entry: %s", applyErr.Error()) }

	t.Logf("actual exported count: %d", len(engine.Exported))
	if len(engine.Exported) != exportedBefore { t.Errorf("actual exported count not equal to expected: actual(%d), expected(%d)\n", len(engine.Exported), exportedBefore) }
}

func TestReloadRebuildsTheProcessCache(t *testing.T) {
	engine := SetupMockEngine(t)
	engine.Deploy(t, orderProcess())

	reloadErr := engine.Stream.Reload()
	if reloadErr != nil { t.Fatalf("error on reloading stream: %s", reloadErr.Error()) }

	engine.CreateInstance(t, "order-process", nil)

	activated := engine.ActivatedElementIds()

	t.Logf("actual activated element ids: %v", activated)
	if ! contains(activated, "done") { t.Errorf("actual activations missing expected element: actual(%v), expected(%s)\n", activated, "done") }

	roots := engine.RootInstances(t)
	if len(roots) != 0 { t.Errorf("actual root instance count not equal to expected: actual(%d), expected(%d)\n", len(roots), 0) }
}

/*
	a restarted replica rebuilds the stream over its state db and raft replays
	the committed log from the snapshot floor. replayed entries must not
	re-apply, the replica has to stay byte for byte in step with one that never
	restarted
*/

func TestRestartAndReplayApplyEntriesExactlyOnce(t *testing.T) {
	restarted := SetupMockEngine(t)
	control := SetupMockEngine(t)

	for _, engine := range []*MockEngine{ restarted, control } {
		engine.Deploy(t, paymentProcess())
		engine.CreateInstance(t, "payment-process", nil)
	}

	exportedBefore := len(restarted.Exported)

	restarted.Restart(t)
	restarted.Replay(t)

	t.Logf("actual exported count after replay: %d, expected exported count after replay: %d\n", len(restarted.Exported), exportedBefore)
	if len(restarted.Exported) != exportedBefore {
		t.Errorf("actual exported count after replay not equal to expected: actual(%d), expected(%d)\n", len(restarted.Exported), exportedBefore)
	}

	restarted.CreateInstance(t, "payment-process", nil)
	control.CreateInstance(t, "payment-process", nil)

	restartedKeys := rootKeys(t, restarted)
	controlKeys := rootKeys(t, control)

	t.Logf("actual root keys: %v, expected root keys: %v\n", restartedKeys, controlKeys)

	if len(restartedKeys) != len(controlKeys) {
		t.Fatalf("actual root instance count not equal to expected: actual(%d), expected(%d)\n", len(restartedKeys), len(controlKeys))
	}

	for idx := range restartedKeys {
		if restartedKeys[idx] != controlKeys[idx] {
			t.Errorf("actual root key not equal to expected: actual(%d), expected(%d)\n", restartedKeys[idx], controlKeys[idx])
		}
	}

	if len(restarted.Exported) != len(control.Exported) {
		t.Errorf("actual exported count not equal to expected: actual(%d), expected(%d)\n", len(restarted.Exported), len(control.Exported))
	}
}

/*
	an entry whose cascade fails mid way must leave no trace, neither assigned
	keys nor partially created instances, so a retried or skipped entry cannot
	diverge the replica from the rest of the partition
*/

func TestFailedEntryRollsBackEveryEffect(t *testing.T) {
	engine := SetupMockEngine(t)
	control := SetupMockEngine(t)

	engine.Deploy(t, paymentProcess())
	control.Deploy(t, paymentProcess())

	value := &record.ProcessInstanceRecordValue{ ElementId: "ghost-process", ElementType: record.ProcessElement, ProcessDefinitionKey: 9999 }

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, record.ElementActivating, 0, value)
	if recErr != nil { t.Fatalf("error on building record: %s", recErr.Error()) }

	failing := &log.LogEntry{
		Index: 1,
		Term: 1,
		EntryType: log.EntryCommand,
		Command: *rec,
	}

	applyErr := engine.Stream.Apply(failing)

	t.Logf("actual apply error: %v", applyErr)
	if applyErr == nil { t.Fatalf("expected apply of the failing entry to error but it succeeded") }

	if engine.Stream.LastApplied() != 0 {
		t.Errorf("actual last applied not equal to expected: actual(%d), expected(%d)\n", engine.Stream.LastApplied(), 0)
	}

	roots := engine.RootInstances(t)
	if len(roots) != 0 { t.Errorf("actual root instance count not equal to expected: actual(%d), expected(%d)\n", len(roots), 0) }

	engine.CreateInstance(t, "payment-process", nil)
	control.CreateInstance(t, "payment-process", nil)

	engineKeys := rootKeys(t, engine)
	controlKeys := rootKeys(t, control)

	t.Logf("actual root keys: %v, expected root keys: %v\n", engineKeys, controlKeys)

	if len(engineKeys) != 1 || len(controlKeys) != 1 || engineKeys[0] != controlKeys[0] {
		t.Errorf("actual root keys not equal to expected: actual(%v), expected(%v)\n", engineKeys, controlKeys)
	}
}

func rootKeys(t *testing.T, engine *MockEngine) []int64 {
	keys := []int64{}
	for _, root := range engine.RootInstances(t) {
		keys = append(keys, root.Key)
	}

	sort.Slice(keys, func(i int, j int) bool { return keys[i] < keys[j] })

	return keys
}
