package streamtests

import "encoding/json"
import "testing"

import "github.com/sirgallo/flow/pkg/bpmn"
import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/model"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"
import "github.com/sirgallo/flow/pkg/stream"
import "github.com/sirgallo/flow/pkg/utils"


/*
	an engine over a single partition fed directly with committed entries, the
	consensus layer is not involved
*/

type MockEngine struct {
	State    *state.State
	Stream   *stream.Stream
	Exported []*record.Record

	// every submitted entry in log order, the committed log a restarted
	// replica would replay
	Entries []*log.LogEntry

	nextIndex int64
}

type recordingExporter struct {
	engine *MockEngine
}

func (exporter *recordingExporter) Export(position int64, rec *record.Record) error {
	exporter.engine.Exported = append(exporter.engine.Exported, rec)
	return nil
}

func SetupMockEngine(t *testing.T) *MockEngine {
	engineState, stateErr := state.NewState(t.TempDir())
	if stateErr != nil { t.Fatalf("unable to create or open engine state: %s", stateErr.Error()) }

	t.Cleanup(func() { engineState.Close() })

	engine := &MockEngine{ State: engineState }

	behaviors := bpmn.NewBehaviors(engineState)
	processors := bpmn.NewElementProcessors(behaviors)

	engineStream, streamErr := stream.NewStream(&stream.StreamOpts{
		PartitionId: 1,
		PartitionCount: 1,
		State: engineState,
		Behaviors: behaviors,
		Processors: processors,
		Exporters: []stream.Exporter{ &recordingExporter{ engine: engine } },
	})

	if streamErr != nil { t.Fatalf("unable to initialize stream processor: %s", streamErr.Error()) }

	engine.Stream = engineStream

	return engine
}

func (engine *MockEngine) Submit(t *testing.T, rec *record.Record) {
	entry := &log.LogEntry{
		Index: engine.nextIndex,
		Term: 1,
		EntryType: log.EntryCommand,
		Command: *rec,
	}

	engine.nextIndex++
	engine.Entries = append(engine.Entries, entry)

	applyErr := engine.Stream.Apply(entry)
	if applyErr != nil { t.Fatalf("error on applying entry: %s", applyErr.Error()) }
}

/*
	rebuild the stream over the same state db, the recovery a restarted
	replica performs before raft replays the committed log for it
*/

func (engine *MockEngine) Restart(t *testing.T) {
	behaviors := bpmn.NewBehaviors(engine.State)
	processors := bpmn.NewElementProcessors(behaviors)

	engineStream, streamErr := stream.NewStream(&stream.StreamOpts{
		PartitionId: 1,
		PartitionCount: 1,
		State: engine.State,
		Behaviors: behaviors,
		Processors: processors,
		Exporters: []stream.Exporter{ &recordingExporter{ engine: engine } },
	})

	if streamErr != nil { t.Fatalf("unable to reinitialize stream processor: %s", streamErr.Error()) }

	engine.Stream = engineStream
}

func (engine *MockEngine) Replay(t *testing.T) {
	for _, entry := range engine.Entries {
		applyErr := engine.Stream.Apply(entry)
		if applyErr != nil { t.Fatalf("error on replaying entry: %s", applyErr.Error()) }
	}
}

func (engine *MockEngine) Deploy(t *testing.T, process *model.ExecutableProcess) {
	resource, encErr := utils.EncodeStructToBytes[*model.ExecutableProcess](process)
	if encErr != nil { t.Fatalf("error on encoding process model: %s", encErr.Error()) }

	value := &record.DeploymentRecordValue{ ProcessId: process.ProcessId, Resource: resource }

	rec, recErr := record.NewRecord[*record.DeploymentRecordValue](record.DeploymentValue, record.DeploymentCreated, 0, value)
	if recErr != nil { t.Fatalf("error on building deployment record: %s", recErr.Error()) }

	engine.Submit(t, rec)
}

func (engine *MockEngine) CreateInstance(t *testing.T, processId string, variables json.RawMessage) {
	value := &record.ProcessInstanceRecordValue{
		ElementId: processId,
		ElementType: record.ProcessElement,
		Variables: variables,
	}

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, record.ElementActivating, 0, value)
	if recErr != nil { t.Fatalf("error on building activation record: %s", recErr.Error()) }

	engine.Submit(t, rec)
}

func (engine *MockEngine) PublishMessage(t *testing.T, name string, variables json.RawMessage) {
	value := &record.MessageRecordValue{ Name: name, Variables: variables }

	rec, recErr := record.NewRecord[*record.MessageRecordValue](record.MessageValue, record.EventOccurred, 0, value)
	if recErr != nil { t.Fatalf("error on building message record: %s", recErr.Error()) }

	engine.Submit(t, rec)
}

func (engine *MockEngine) RootInstances(t *testing.T) []*state.ElementInstance {
	roots, getErr := engine.State.ElementInstances.GetChildren(state.NoParent)
	if getErr != nil { t.Fatalf("error on getting root instances: %s", getErr.Error()) }

	return roots
}

func (engine *MockEngine) ActivatedElementIds() []string {
	ids := []string{}
	for _, rec := range engine.Exported {
		if rec.ValueType != record.ProcessInstanceValue || rec.Intent != record.ElementActivating { continue }

		value, decErr := record.DecodeValue[record.ProcessInstanceRecordValue](rec)
		if decErr != nil { continue }

		ids = append(ids, value.ElementId)
	}

	return ids
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id { return true }
	}

	return false
}
