package service

import "context"
import "path/filepath"
import "time"

import "github.com/sirgallo/flow/pkg/bpmn"
import "github.com/sirgallo/flow/pkg/httpservice"
import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/state"
import "github.com/sirgallo/flow/pkg/stream"
import "github.com/sirgallo/flow/pkg/transport"
import "github.com/sirgallo/flow/pkg/utils"
import "github.com/sirgallo/flow/pkg/wal"


//=========================================== Flow Service


var Log = clog.NewCustomLog(NAME)

/*
	initialize the sub modules of a workflow engine node and link them together
		1.) durable stores, the replicated log wal and the engine state db share
			the configured data path
		2.) the stream processor applies committed records and feeds exported
			records into the bulk exporter
		3.) the raft node replicates client proposals, its apply callback is the
			stream processor and its restore callback swaps the engine state for
			an installed snapshot
		4.) the grpc transport carries raft traffic between peers, responses
			come back to the raft node as callbacks
		5.) the http service accepts client commands and proposes them on the
			raft node
*/

func NewFlowService(opts *FlowServiceOpts) (*FlowService, error) {
	conf := opts.Config

	engineState, stateErr := state.NewState(conf.DataPath)
	if stateErr != nil { return nil, stateErr }

	nodeWAL, walErr := wal.NewWAL(conf.DataPath)
	if walErr != nil { return nil, walErr }

	behaviors := bpmn.NewBehaviors(engineState)
	processors := bpmn.NewElementProcessors(behaviors)

	fileSink, sinkErr := stream.NewFileSink(filepath.Join(conf.DataPath, ExportFileName))
	if sinkErr != nil { return nil, sinkErr }

	exporter := stream.NewBulkExporter(fileSink, conf.Exporter.BulkSize)

	engineStream, streamErr := stream.NewStream(&stream.StreamOpts{
		PartitionId: conf.Partition.Id,
		PartitionCount: conf.Partition.Count,
		State: engineState,
		Behaviors: behaviors,
		Processors: processors,
		Exporters: []stream.Exporter{ exporter },
	})

	if streamErr != nil { return nil, streamErr }

	raftNode, raftErr := raft.NewRaftNode(&raft.RaftNodeOpts{
		Host: conf.Host,
		Peers: conf.Peers(),
		WAL: nodeWAL,
		ElectionTimeoutMinMs: conf.Raft.ElectionTimeoutMinMs,
		ElectionTimeoutMaxMs: conf.Raft.ElectionTimeoutMaxMs,
		HeartbeatIntervalMs: conf.Raft.HeartbeatIntervalMs,
		ApplyFunc: engineStream.Apply,
		RestoreFunc: func(snapshot *wal.SnapshotEntry) error {
			restoreErr := engineState.Restore(snapshot.Data)
			if restoreErr != nil { return restoreErr }

			return engineStream.Reload()
		},
	})

	if raftErr != nil { return nil, raftErr }

	grpcTransport := transport.NewGrpcTransport(&transport.GrpcTransportOpts{
		Port: utils.NormalizePort(conf.Ports.Raft),
		Hosts: conf.Hosts,
		MaxConn: conf.MaxConn,
	}, raftNode)

	raftNode.SetTransport(grpcTransport)

	flowService := &FlowService{
		Config: conf,
		WAL: nodeWAL,
		State: engineState,
		Stream: engineStream,
		Raft: raftNode,
		Transport: grpcTransport,
		RpcServer: transport.NewRaftRpcServer(raftNode, raftNode),
		HTTPService: httpservice.NewHTTPService(&httpservice.HTTPServiceOpts{
			Port: conf.Ports.Http,
			Proposer: raftNode,
			State: engineState,
		}),
		FileSink: fileSink,
		Exporter: exporter,
	}

	return flowService, nil
}

/*
	Start Flow Service
		1.) serve raft rpcs for the rest of the cluster
		2.) serve the client http surface
		3.) run the raft election and heartbeat loops
		4.) run the snapshot loop, compacting the log once enough entries have
			been applied past the last snapshot
*/

func (flowService *FlowService) StartFlowService(ctx context.Context) {
	go func() {
		rpcPort := utils.NormalizePort(flowService.Config.Ports.Raft)

		srvErr := flowService.RpcServer.StartRaftService(rpcPort)
		if srvErr != nil { Log.Fatal("unable to start raft rpc service:", srvErr.Error()) }
	}()

	flowService.HTTPService.StartHTTPService()
	flowService.Raft.Run(ctx)

	go flowService.snapshotLoop(ctx)

	Log.Info("flow service started on host:", flowService.Config.Host)
}

func (flowService *FlowService) snapshotLoop(ctx context.Context) {
	ticker := time.NewTicker(SnapshotCheckIntervalSeconds * time.Second)
	defer ticker.Stop()

	for {
		select {
			case <- ctx.Done():
				return
			case <- ticker.C:
				// capture the applied position before serializing, the data is
				// then at least as new as the position the snapshot claims
				applied := flowService.Stream.LastApplied()
				if applied - flowService.Raft.SnapshotIndex() < SnapshotThreshold { continue }

				data, snapErr := flowService.State.Snapshot()
				if snapErr != nil {
					Log.Error("unable to serialize engine state for snapshot:", snapErr.Error())
					continue
				}

				takeErr := flowService.Raft.TakeSnapshot(data, applied)
				if takeErr != nil {
					Log.Error("unable to persist snapshot:", takeErr.Error())
					continue
				}

				Log.Info("snapshot taken at applied position:", applied)
		}
	}
}

func (flowService *FlowService) Close() {
	flushErr := flowService.Exporter.Flush()
	if flushErr != nil { Log.Warn("unable to flush exporter on shutdown:", flushErr.Error()) }

	closeSinkErr := flowService.FileSink.Close()
	if closeSinkErr != nil { Log.Warn("unable to close export sink:", closeSinkErr.Error()) }

	transportErr := flowService.Transport.Close()
	if transportErr != nil { Log.Warn("unable to close transport connections:", transportErr.Error()) }

	stateErr := flowService.State.Close()
	if stateErr != nil { Log.Warn("unable to close engine state:", stateErr.Error()) }

	walErr := flowService.WAL.Close()
	if walErr != nil { Log.Warn("unable to close wal:", walErr.Error()) }
}
