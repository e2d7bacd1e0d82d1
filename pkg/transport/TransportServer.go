package transport

import "context"
import "errors"
import "net"

import "google.golang.org/grpc"

import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/raftrpc"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Raft RPC Server


/*
	grpc server implementation

	inbound raft rpcs unwrap to the node's handler, proposals go through the
	proposer so followers can hint the current leader back to the caller
*/

type RaftRpcServer struct {
	handler  MessageHandler
	proposer Proposer
}

func NewRaftRpcServer(handler MessageHandler, proposer Proposer) *RaftRpcServer {
	return &RaftRpcServer{
		handler: handler,
		proposer: proposer,
	}
}

/*
	Start Raft Service
		--> launch the grpc server for the raft rpcs, blocks serving
*/

func (server *RaftRpcServer) StartRaftService(port string) error {
	listener, lisErr := net.Listen("tcp", port)
	if lisErr != nil { return lisErr }

	Log.Info("raft rpc service starting on port:", port)

	srv := grpc.NewServer()
	raftrpc.RegisterRaftServiceServer(srv, server)

	return srv.Serve(listener)
}

func (server *RaftRpcServer) RequestVoteRPC(ctx context.Context, req *raftrpc.RequestVoteRequest) (*raftrpc.RequestVoteResponse, error) {
	reply := server.handler.HandleRequestVote(&raft.RequestVoteArgs{
		Term: req.Term,
		CandidateId: req.CandidateId,
		LastLogIndex: req.LastLogIndex,
		LastLogTerm: req.LastLogTerm,
	})

	return &raftrpc.RequestVoteResponse{
		Term: reply.Term,
		VoteGranted: reply.VoteGranted,
	}, nil
}

func (server *RaftRpcServer) AppendEntriesRPC(ctx context.Context, req *raftrpc.AppendEntriesRequest) (*raftrpc.AppendEntriesResponse, error) {
	entries, transformErr := TransformEntriesFromRpc(req.Entries)
	if transformErr != nil { return nil, transformErr }

	reply := server.handler.HandleAppendEntries(&raft.AppendEntriesArgs{
		Term: req.Term,
		LeaderId: req.LeaderId,
		PrevLogIndex: req.PrevLogIndex,
		PrevLogTerm: req.PrevLogTerm,
		Entries: entries,
		LeaderCommit: req.LeaderCommit,
	})

	return &raftrpc.AppendEntriesResponse{
		Term: reply.Term,
		Success: reply.Success,
		LatestLogIndex: reply.LatestLogIndex,
	}, nil
}

func (server *RaftRpcServer) InstallSnapshotRPC(ctx context.Context, req *raftrpc.InstallSnapshotRequest) (*raftrpc.InstallSnapshotResponse, error) {
	reply := server.handler.HandleInstallSnapshot(&raft.InstallSnapshotArgs{
		Term: req.Term,
		LeaderId: req.LeaderId,
		LastIncludedIndex: req.LastIncludedIndex,
		LastIncludedTerm: req.LastIncludedTerm,
		Data: req.Data,
	})

	return &raftrpc.InstallSnapshotResponse{
		Term: reply.Term,
		Success: reply.Success,
	}, nil
}

/*
	Propose RPC
		a command accepted by the leader answers with its assigned log index, a
		follower refuses and hints the leader it last heard from
*/

func (server *RaftRpcServer) ProposeRPC(ctx context.Context, req *raftrpc.ProposeRequest) (*raftrpc.ProposeResponse, error) {
	command, decErr := utils.DecodeBytesToStruct[record.Record](req.Command)
	if decErr != nil { return nil, decErr }

	index, proposeErr := server.proposer.Propose(*command)
	if proposeErr != nil {
		if errors.Is(proposeErr, raft.ErrNotLeader) {
			return &raftrpc.ProposeResponse{
				Accepted: false,
				Index: -1,
				LeaderHint: server.proposer.CurrentLeader(),
			}, nil
		}

		return nil, proposeErr
	}

	return &raftrpc.ProposeResponse{
		Accepted: true,
		Index: index,
	}, nil
}
