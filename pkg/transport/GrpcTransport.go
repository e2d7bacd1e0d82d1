package transport

import "context"
import "time"

import "google.golang.org/grpc"

import "github.com/sirgallo/flow/pkg/connpool"
import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/raftrpc"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Grpc Transport


var Log = clog.NewCustomLog(NAME)

const RPCTimeout = 2 * time.Second

type GrpcTransportOpts struct {
	Port string

	// host id --> dialable address
	Hosts map[string]string

	MaxConn int
}

/*
	Grpc Transport
		the production transport, rpcs go out on pooled grpc connections. each
		send runs on its own goroutine so raft never blocks on the network, the
		response re-enters the node through the handler callbacks
*/

type GrpcTransport struct {
	port    string
	hosts   map[string]string
	pool    *connpool.ConnectionPool
	handler MessageHandler
}

func NewGrpcTransport(opts *GrpcTransportOpts, handler MessageHandler) *GrpcTransport {
	return &GrpcTransport{
		port: opts.Port,
		hosts: opts.Hosts,
		pool: connpool.NewConnectionPool(connpool.ConnectionPoolOpts{ MaxConn: opts.MaxConn }),
		handler: handler,
	}
}

func (transport *GrpcTransport) Close() error {
	return transport.pool.CloseConnections()
}

/*
	resolve a client for the peer, dialing with a short exponential backoff so
	a peer restarting between ticks does not immediately fail the send
*/

func (transport *GrpcTransport) client(to string) (raftrpc.RaftServiceClient, error) {
	addr, ok := transport.hosts[to]
	if ! ok { addr = to }

	maxRetries := 3
	expBackoff := utils.NewExponentialBackoffStrat[*grpc.ClientConn](utils.ExpBackoffOpts{ MaxRetries: &maxRetries, TimeoutInMilliseconds: 10 })

	conn, connErr := expBackoff.PerformBackoff(func() (*grpc.ClientConn, error) {
		return transport.pool.GetConnection(addr, transport.port)
	})

	if connErr != nil { return nil, connErr }

	return raftrpc.NewRaftServiceClient(conn), nil
}

func (transport *GrpcTransport) SendRequestVote(to string, args *raft.RequestVoteArgs) {
	go func() {
		client, clientErr := transport.client(to)
		if clientErr != nil {
			Log.Warn("unable to connect to peer:", to, clientErr.Error())
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), RPCTimeout)
		defer cancel()

		res, rpcErr := client.RequestVoteRPC(ctx, &raftrpc.RequestVoteRequest{
			Term: args.Term,
			CandidateId: args.CandidateId,
			LastLogIndex: args.LastLogIndex,
			LastLogTerm: args.LastLogTerm,
		})

		if rpcErr != nil {
			Log.Debug("request vote rpc failed for peer:", to, rpcErr.Error())
			return
		}

		transport.handler.HandleRequestVoteResponse(to, &raft.RequestVoteReply{
			Term: res.Term,
			VoteGranted: res.VoteGranted,
		})
	}()
}

func (transport *GrpcTransport) SendAppendEntries(to string, args *raft.AppendEntriesArgs) {
	go func() {
		client, clientErr := transport.client(to)
		if clientErr != nil {
			Log.Warn("unable to connect to peer:", to, clientErr.Error())
			return
		}

		entries, transformErr := TransformEntriesToRpc(args.Entries)
		if transformErr != nil {
			Log.Error("unable to encode entries for peer:", to, transformErr.Error())
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), RPCTimeout)
		defer cancel()

		res, rpcErr := client.AppendEntriesRPC(ctx, &raftrpc.AppendEntriesRequest{
			Term: args.Term,
			LeaderId: args.LeaderId,
			PrevLogIndex: args.PrevLogIndex,
			PrevLogTerm: args.PrevLogTerm,
			Entries: entries,
			LeaderCommit: args.LeaderCommit,
		})

		if rpcErr != nil {
			Log.Debug("append entries rpc failed for peer:", to, rpcErr.Error())
			return
		}

		transport.handler.HandleAppendEntriesResponse(to, &raft.AppendEntriesReply{
			Term: res.Term,
			Success: res.Success,
			LatestLogIndex: res.LatestLogIndex,
		})
	}()
}

func (transport *GrpcTransport) SendInstallSnapshot(to string, args *raft.InstallSnapshotArgs) {
	go func() {
		client, clientErr := transport.client(to)
		if clientErr != nil {
			Log.Warn("unable to connect to peer:", to, clientErr.Error())
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), RPCTimeout)
		defer cancel()

		res, rpcErr := client.InstallSnapshotRPC(ctx, &raftrpc.InstallSnapshotRequest{
			Term: args.Term,
			LeaderId: args.LeaderId,
			LastIncludedIndex: args.LastIncludedIndex,
			LastIncludedTerm: args.LastIncludedTerm,
			Data: args.Data,
		})

		if rpcErr != nil {
			Log.Debug("install snapshot rpc failed for peer:", to, rpcErr.Error())
			return
		}

		transport.handler.HandleInstallSnapshotResponse(to, &raft.InstallSnapshotReply{
			Term: res.Term,
			Success: res.Success,
		})
	}()
}


//=========================================== wire transforms


func TransformEntriesToRpc(entries []*log.LogEntry) ([]*raftrpc.LogEntry, error) {
	var transformErr error

	transform := func(entry *log.LogEntry) *raftrpc.LogEntry {
		command, encErr := utils.EncodeStructToBytes[record.Record](entry.Command)
		if encErr != nil {
			transformErr = encErr
			return nil
		}

		return &raftrpc.LogEntry{
			Index: entry.Index,
			Term: entry.Term,
			EntryType: string(entry.EntryType),
			Command: command,
		}
	}

	transformed := utils.Map[*log.LogEntry, *raftrpc.LogEntry](entries, transform)
	if transformErr != nil { return nil, transformErr }

	return transformed, nil
}

func TransformEntriesFromRpc(entries []*raftrpc.LogEntry) ([]*log.LogEntry, error) {
	var transformErr error

	transform := func(entry *raftrpc.LogEntry) *log.LogEntry {
		command, decErr := utils.DecodeBytesToStruct[record.Record](entry.Command)
		if decErr != nil {
			transformErr = decErr
			return nil
		}

		return &log.LogEntry{
			Index: entry.Index,
			Term: entry.Term,
			EntryType: log.EntryType(entry.EntryType),
			Command: *command,
		}
	}

	transformed := utils.Map[*raftrpc.LogEntry, *log.LogEntry](entries, transform)
	if transformErr != nil { return nil, transformErr }

	return transformed, nil
}
