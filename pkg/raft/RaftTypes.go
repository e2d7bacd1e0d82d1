package raft

import "errors"
import "sync"
import "time"

import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/wal"


const NAME = "Raft"

type Role string

const (
	Follower  Role = "FOLLOWER"
	Candidate Role = "CANDIDATE"
	Leader    Role = "LEADER"
)

var ErrNotLeader = errors.New("not the leader")

type RequestVoteArgs struct {
	Term         int64
	CandidateId  string
	LastLogIndex int64
	LastLogTerm  int64
}

type RequestVoteReply struct {
	Term        int64
	VoteGranted bool
}

type AppendEntriesArgs struct {
	Term         int64
	LeaderId     string
	PrevLogIndex int64
	PrevLogTerm  int64
	Entries      []*log.LogEntry
	LeaderCommit int64
}

type AppendEntriesReply struct {
	Term           int64
	Success        bool
	LatestLogIndex int64
}

type InstallSnapshotArgs struct {
	Term              int64
	LeaderId          string
	LastIncludedIndex int64
	LastIncludedTerm  int64
	Data              []byte
}

type InstallSnapshotReply struct {
	Term    int64
	Success bool
}

/*
	outbound side of the node, fire and forget. responses are delivered back
	asynchronously through the Handle*Response methods on the node
*/

type Transport interface {
	SendRequestVote(to string, args *RequestVoteArgs)
	SendAppendEntries(to string, args *AppendEntriesArgs)
	SendInstallSnapshot(to string, args *InstallSnapshotArgs)
}

type RaftNodeOpts struct {
	Host  string
	Peers []string

	WAL *wal.WAL

	ElectionTimeoutMinMs int
	ElectionTimeoutMaxMs int
	HeartbeatIntervalMs  int

	// invoked for each committed entry in log order
	ApplyFunc func(entry *log.LogEntry) error

	// invoked when a snapshot is installed from the leader
	RestoreFunc func(snapshot *wal.SnapshotEntry) error
}

/*
	a single raft participant

	all raft state transitions run under one mutex, rpc handlers and timer ticks
	alike. the volatile indexes follow the raft paper: commitIndex and
	lastApplied start below the log, nextIndex and matchIndex are reinitialized
	on every election win.
*/

type RaftNode struct {
	mu sync.Mutex

	host  string
	peers []string

	wal       *wal.WAL
	transport Transport

	role        Role
	currentTerm int64
	votedFor    string
	leaderId    string

	commitIndex int64
	lastApplied int64

	lastLogIndex int64
	lastLogTerm  int64

	snapshotIndex int64
	snapshotTerm  int64

	nextIndex     map[string]int64
	matchIndex    map[string]int64
	votesReceived map[string]bool

	lastContact time.Time

	electionTimeoutMin time.Duration
	electionTimeoutMax time.Duration
	heartbeatInterval  time.Duration

	applyFunc   func(entry *log.LogEntry) error
	restoreFunc func(snapshot *wal.SnapshotEntry) error
}
