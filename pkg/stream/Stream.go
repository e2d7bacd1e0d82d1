package stream

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/bpmn"
import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/model"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Stream Processor


var Log = clog.NewCustomLog(NAME)

/*
	Stream Processor
		1.) rebuild the in memory process cache from the stored deployments
		2.) restore the last applied log position so already applied entries are
			skipped on replay after restart
*/

func NewStream(opts *StreamOpts) (*Stream, error) {
	stream := &Stream{
		partitionId: opts.PartitionId,
		partitionCount: opts.PartitionCount,
		state: opts.State,
		behaviors: opts.Behaviors,
		processors: opts.Processors,
		exporters: opts.Exporters,
	}

	restoreErr := stream.restoreProcessCache()
	if restoreErr != nil { return nil, restoreErr }

	position, posErr := opts.State.GetLastAppliedPosition()
	if posErr != nil { return nil, posErr }

	stream.lastApplied = position

	return stream, nil
}

func (stream *Stream) LastApplied() int64 {
	return stream.lastApplied
}

/*
	Reload
		resync the in memory caches after the engine state has been replaced by
		an installed snapshot
*/

func (stream *Stream) Reload() error {
	for processId := range stream.behaviors.Processes { delete(stream.behaviors.Processes, processId) }
	for definitionKey := range stream.behaviors.ProcessesByKey { delete(stream.behaviors.ProcessesByKey, definitionKey) }

	restoreErr := stream.restoreProcessCache()
	if restoreErr != nil { return restoreErr }

	position, posErr := stream.state.GetLastAppliedPosition()
	if posErr != nil { return posErr }

	stream.lastApplied = position
	return nil
}

/*
	Apply
		apply one committed log entry to the engine state
			1.) entries at or below the last applied position are already in the
				state db, skip them
			2.) noop entries carry no command, only the position advances
			3.) command entries are dispatched by value type, follow up records
				join the apply queue in emission order
			4.) the full cascade and the advanced applied position commit in one
				write transaction, a crash mid entry leaves the state db at the
				previous position with none of the entry's effects
			5.) every applied record is handed to the exporters at the entry's
				log position once the transaction committed
*/

func (stream *Stream) Apply(entry *log.LogEntry) error {
	if entry.Index <= stream.lastApplied { return nil }

	var applied []*record.Record

	applyTransaction := func(tx *bolt.Tx) error {
		bound := stream.bindTx(tx)

		if entry.EntryType == log.EntryCommand {
			queue := []*record.Record{ &entry.Command }

			for len(queue) > 0 {
				rec := queue[0]
				queue = queue[1:]

				followups, applyErr := bound.applyRecord(rec)
				if applyErr != nil { return applyErr }

				applied = append(applied, rec)
				queue = append(queue, followups...)
			}
		}

		return bound.state.SetLastAppliedPosition(entry.Index)
	}

	commitErr := stream.state.DB.Update(applyTransaction)
	if commitErr != nil { return commitErr }

	stream.lastApplied = entry.Index

	for _, rec := range applied {
		stream.export(entry.Index, rec)
	}

	return nil
}

/*
	a stream view whose state access runs inside the open write transaction.
	the process caches are shared with the outer stream, registrations made
	while applying a deployment survive the transaction
*/

func (stream *Stream) bindTx(tx *bolt.Tx) *Stream {
	boundState := stream.state.WithTx(tx)
	boundBehaviors := stream.behaviors.WithState(boundState)

	return &Stream{
		partitionId: stream.partitionId,
		partitionCount: stream.partitionCount,
		state: boundState,
		behaviors: boundBehaviors,
		processors: bpmn.NewElementProcessors(boundBehaviors),
		exporters: stream.exporters,
		lastApplied: stream.lastApplied,
	}
}

func (stream *Stream) export(position int64, rec *record.Record) {
	for _, exporter := range stream.exporters {
		exportErr := exporter.Export(position, rec)
		if exportErr != nil { Log.Warn("exporter failed at position:", position, exportErr.Error()) }
	}
}

func (stream *Stream) restoreProcessCache() error {
	deployments, getErr := stream.state.Deployments.GetDeployments()
	if getErr != nil { return getErr }

	for deploymentKey, deployment := range deployments {
		process, decErr := utils.DecodeBytesToStruct[model.ExecutableProcess](deployment.Resource)
		if decErr != nil {
			Log.Error("stored deployment resource does not decode, skipping:", deploymentKey)
			continue
		}

		process.ProcessDefinitionKey = deployment.ProcessDefinitionKey
		stream.registerProcess(process)
	}

	return nil
}

func (stream *Stream) registerProcess(process *model.ExecutableProcess) {
	stream.behaviors.Processes[process.ProcessId] = process
	stream.behaviors.ProcessesByKey[process.ProcessDefinitionKey] = process
}
