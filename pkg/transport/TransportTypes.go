package transport

import "sync"

import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/record"


const NAME = "Transport"

/*
	inbound side of a raft participant, requests answer synchronously and
	responses arrive as callbacks tagged with the responding host
*/

type MessageHandler interface {
	HandleRequestVote(args *raft.RequestVoteArgs) *raft.RequestVoteReply
	HandleAppendEntries(args *raft.AppendEntriesArgs) *raft.AppendEntriesReply
	HandleInstallSnapshot(args *raft.InstallSnapshotArgs) *raft.InstallSnapshotReply

	HandleRequestVoteResponse(from string, reply *raft.RequestVoteReply)
	HandleAppendEntriesResponse(from string, reply *raft.AppendEntriesReply)
	HandleInstallSnapshotResponse(from string, reply *raft.InstallSnapshotReply)
}

/*
	command submission surface of the node, served over rpc so followers can
	redirect clients to the leader
*/

type Proposer interface {
	Propose(command record.Record) (int64, error)
	CurrentLeader() string
}

/*
	Sim Cluster
		an in memory cluster of raft participants with explicit message
		delivery. messages queue in send order and only move when the harness
		delivers them, so elections, replication, and partitions replay
		deterministically
*/

type SimCluster struct {
	mu sync.Mutex

	handlers    map[string]MessageHandler
	queue       []*SimMessage
	partitioned map[string]bool
}

type SimMessage struct {
	From    string
	To      string
	Payload interface{}
}

type SimTransport struct {
	cluster *SimCluster
	host    string
}
