package service

import "github.com/sirgallo/flow/pkg/config"
import "github.com/sirgallo/flow/pkg/httpservice"
import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/state"
import "github.com/sirgallo/flow/pkg/stream"
import "github.com/sirgallo/flow/pkg/transport"
import "github.com/sirgallo/flow/pkg/wal"


const NAME = "Flow Service"

// log entries applied past the last snapshot before a new one is taken
const SnapshotThreshold = 10000

const SnapshotCheckIntervalSeconds = 30

const ExportFileName = "exported.log"

type FlowServiceOpts struct {
	Config *config.Config
}

/*
	a single workflow engine node

	layering, bottom up:
		1.) wal + engine state, the durable stores
		2.) stream processor, applies committed records to the engine state
		3.) raft node, replicates proposed records and feeds the stream
		4.) grpc transport + rpc server, the cluster facing surface
		5.) http service, the client facing surface
*/

type FlowService struct {
	Config *config.Config

	WAL   *wal.WAL
	State *state.State

	Stream *stream.Stream
	Raft   *raft.RaftNode

	Transport *transport.GrpcTransport
	RpcServer *transport.RaftRpcServer

	HTTPService *httpservice.HTTPService

	FileSink *stream.FileSink
	Exporter *stream.BulkExporter
}
