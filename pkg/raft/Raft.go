package raft

import "context"
import "math/rand"
import "time"

import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/utils"
import "github.com/sirgallo/flow/pkg/wal"


//=========================================== Raft Node


var Log = clog.NewCustomLog(NAME)

/*
	Raft Node
		1.) restore the durable term and vote from the WAL, a crashed node never
			votes twice in a term it already voted in
		2.) restore the last log index and term, and the snapshot floor when one
			was taken
		3.) every node starts as a follower, leadership is only ever won through
			an election
*/

func NewRaftNode(opts *RaftNodeOpts) (*RaftNode, error) {
	node := &RaftNode{
		host: opts.Host,
		peers: opts.Peers,
		wal: opts.WAL,
		role: Follower,
		commitIndex: -1,
		lastApplied: -1,
		lastLogIndex: -1,
		snapshotIndex: -1,
		nextIndex: make(map[string]int64),
		matchIndex: make(map[string]int64),
		votesReceived: make(map[string]bool),
		lastContact: time.Now(),
		electionTimeoutMin: time.Duration(opts.ElectionTimeoutMinMs) * time.Millisecond,
		electionTimeoutMax: time.Duration(opts.ElectionTimeoutMaxMs) * time.Millisecond,
		heartbeatInterval: time.Duration(opts.HeartbeatIntervalMs) * time.Millisecond,
		applyFunc: opts.ApplyFunc,
		restoreFunc: opts.RestoreFunc,
	}

	durable, durableErr := opts.WAL.GetDurableState()
	if durableErr != nil { return nil, durableErr }

	if durable != nil {
		node.currentTerm = durable.CurrentTerm
		node.votedFor = durable.VotedFor
	}

	snapshot, snapshotErr := opts.WAL.GetSnapshot()
	if snapshotErr != nil { return nil, snapshotErr }

	if snapshot != nil {
		node.snapshotIndex = snapshot.LastIncludedIndex
		node.snapshotTerm = snapshot.LastIncludedTerm
		node.lastLogIndex = snapshot.LastIncludedIndex
		node.lastLogTerm = snapshot.LastIncludedTerm
		node.commitIndex = snapshot.LastIncludedIndex
		node.lastApplied = snapshot.LastIncludedIndex
	}

	latest, latestErr := opts.WAL.GetLatest()
	if latestErr != nil { return nil, latestErr }

	if latest != nil {
		node.lastLogIndex = latest.Index
		node.lastLogTerm = latest.Term
	}

	return node, nil
}

/*
	the transport needs the node as its inbound handler, so it is attached
	after construction
*/

func (node *RaftNode) SetTransport(transport Transport) {
	node.transport = transport
}

/*
	Run
		drive the node with wall clock timers
			1.) the election loop fires on a randomized timeout, a node that has
				heard from a leader within the timeout stays put
			2.) the heartbeat loop ticks at the fixed heartbeat interval and is a
				no-op unless this node leads
*/

func (node *RaftNode) Run(ctx context.Context) {
	go node.electionLoop(ctx)
	go node.heartbeatLoop(ctx)
}

func (node *RaftNode) electionLoop(ctx context.Context) {
	for {
		timeout := node.randElectionTimeout()

		select {
			case <- ctx.Done():
				return
			case <- time.After(timeout):
				node.mu.Lock()
				elapsed := time.Since(node.lastContact)
				role := node.role
				node.mu.Unlock()

				if role != Leader && elapsed >= timeout { node.TickElection() }
		}
	}
}

func (node *RaftNode) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(node.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
			case <- ctx.Done():
				return
			case <- ticker.C:
				node.TickHeartbeat()
		}
	}
}

func (node *RaftNode) randElectionTimeout() time.Duration {
	spread := node.electionTimeoutMax - node.electionTimeoutMin
	if spread <= 0 { return node.electionTimeoutMin }

	return node.electionTimeoutMin + time.Duration(rand.Int63n(int64(spread)))
}

/*
	Propose
		append a command to the replicated log
			1.) only the leader accepts proposals, followers reject with the
				current leader as a hint
			2.) the entry is appended to the local WAL at the next index and
				replicated to all peers, commitment follows by quorum
*/

func (node *RaftNode) Propose(command record.Record) (int64, error) {
	node.mu.Lock()
	defer node.mu.Unlock()

	if node.role != Leader { return -1, ErrNotLeader }

	entry := &log.LogEntry{
		Index: node.lastLogIndex + 1,
		Term: node.currentTerm,
		EntryType: log.EntryCommand,
		Command: command,
	}

	appendErr := node.wal.Append(entry)
	if appendErr != nil { return -1, appendErr }

	node.lastLogIndex = entry.Index
	node.lastLogTerm = entry.Term

	node.broadcastAppendEntries()

	// a single node cluster commits on its own quorum
	node.advanceCommitIndex()

	return entry.Index, nil
}


//=========================================== accessors


func (node *RaftNode) Host() string {
	return node.host
}

func (node *RaftNode) CurrentRole() Role {
	node.mu.Lock()
	defer node.mu.Unlock()

	return node.role
}

func (node *RaftNode) CurrentTerm() int64 {
	node.mu.Lock()
	defer node.mu.Unlock()

	return node.currentTerm
}

func (node *RaftNode) CurrentLeader() string {
	node.mu.Lock()
	defer node.mu.Unlock()

	return node.leaderId
}

func (node *RaftNode) CommitIndex() int64 {
	node.mu.Lock()
	defer node.mu.Unlock()

	return node.commitIndex
}

func (node *RaftNode) LastLogIndex() int64 {
	node.mu.Lock()
	defer node.mu.Unlock()

	return node.lastLogIndex
}

func (node *RaftNode) SnapshotIndex() int64 {
	node.mu.Lock()
	defer node.mu.Unlock()

	return node.snapshotIndex
}


//=========================================== membership


/*
	membership is adjusted while the cluster runs, a joining peer starts from
	the leader's view of the log end and catches up through replication
*/

func (node *RaftNode) AddPeer(peer string) {
	node.mu.Lock()
	defer node.mu.Unlock()

	for _, existing := range node.peers {
		if existing == peer { return }
	}

	node.peers = append(node.peers, peer)
	node.nextIndex[peer] = node.lastLogIndex + 1
	node.matchIndex[peer] = -1

	Log.Info("peer added to cluster:", peer)
}

func (node *RaftNode) RemovePeer(peer string) {
	node.mu.Lock()
	defer node.mu.Unlock()

	node.peers = utils.Filter[string](node.peers, func(existing string) bool { return existing != peer })
	delete(node.nextIndex, peer)
	delete(node.matchIndex, peer)
	delete(node.votesReceived, peer)

	Log.Info("peer removed from cluster:", peer)
}


//=========================================== internal helpers


/*
	quorum counts every cluster member including this node
*/

func (node *RaftNode) quorum() int {
	return (len(node.peers) + 1) / 2 + 1
}

func (node *RaftNode) persistDurableState() {
	persistErr := node.wal.SetDurableState(wal.DurableState{
		CurrentTerm: node.currentTerm,
		VotedFor: node.votedFor,
	})

	if persistErr != nil { Log.Fatal("unable to persist term and vote:", persistErr.Error()) }
}

/*
	the term at a log index, answering from the snapshot floor for the index the
	snapshot replaced
*/

func (node *RaftNode) termAt(index int64) int64 {
	if index < 0 { return 0 }
	if index == node.snapshotIndex { return node.snapshotTerm }

	term, termErr := node.wal.TermAt(index)
	if termErr != nil {
		Log.Error("unable to read term at index:", index, termErr.Error())
		return 0
	}

	return term
}
