package stream

import "github.com/sirgallo/flow/pkg/bpmn"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"


const NAME = "Stream"

type StreamOpts struct {
	PartitionId    int32
	PartitionCount int32

	State      *state.State
	Behaviors  *bpmn.Behaviors
	Processors *bpmn.ElementProcessors

	Exporters []Exporter
}

/*
	the committed record stream processor for a partition

	entries arrive in commit order from the replicated log and are applied
	sequentially, record by record. follow up records emitted while applying are
	processed in emission order within the same entry, and the whole cascade
	commits in a single state transaction together with the advanced applied
	position. replaying the same committed log on any replica, including across
	crashes, yields identical state and identical key assignment.
*/

type Stream struct {
	partitionId    int32
	partitionCount int32

	state      *state.State
	behaviors  *bpmn.Behaviors
	processors *bpmn.ElementProcessors

	exporters []Exporter

	lastApplied int64
}

/*
	exporters observe every applied record at its log position. export failures
	never stall the apply path
*/

type Exporter interface {
	Export(position int64, rec *record.Record) error
}
