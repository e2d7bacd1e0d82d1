package raft

import "time"

import "github.com/sirgallo/flow/pkg/wal"


//=========================================== Snapshots


/*
	Take Snapshot
		compact the log behind the applied prefix
			1.) the caller captures the applied position BEFORE serializing the
				state data, so the data is guaranteed to contain every entry the
				snapshot claims. entries applied while serializing stay in the
				log and replicate normally
			2.) the snapshot entry replaces every log entry at or below its last
				included index, those entries are deleted from the WAL
*/

func (node *RaftNode) TakeSnapshot(data []byte, lastIncludedIndex int64) error {
	node.mu.Lock()
	defer node.mu.Unlock()

	if lastIncludedIndex < 0 { return nil }
	if lastIncludedIndex > node.lastApplied { lastIncludedIndex = node.lastApplied }
	if lastIncludedIndex <= node.snapshotIndex { return nil }

	lastIncludedTerm := node.termAt(lastIncludedIndex)

	snapshot := &wal.SnapshotEntry{
		LastIncludedIndex: lastIncludedIndex,
		LastIncludedTerm: lastIncludedTerm,
		Data: data,
	}

	setErr := node.wal.SetSnapshot(snapshot)
	if setErr != nil { return setErr }

	deleteErr := node.wal.DeleteUpTo(lastIncludedIndex)
	if deleteErr != nil { return deleteErr }

	node.snapshotIndex = lastIncludedIndex
	node.snapshotTerm = lastIncludedTerm

	Log.Info("log compacted up to index:", lastIncludedIndex)

	return nil
}

/*
	ship the stored snapshot to a peer whose next index fell behind the
	snapshot floor
*/

func (node *RaftNode) sendInstallSnapshot(peer string) {
	snapshot, getErr := node.wal.GetSnapshot()
	if getErr != nil || snapshot == nil {
		Log.Error("unable to load snapshot for peer:", peer)
		return
	}

	args := &InstallSnapshotArgs{
		Term: node.currentTerm,
		LeaderId: node.host,
		LastIncludedIndex: snapshot.LastIncludedIndex,
		LastIncludedTerm: snapshot.LastIncludedTerm,
		Data: snapshot.Data,
	}

	node.transport.SendInstallSnapshot(peer, args)
}

/*
	Handle Install Snapshot
		1.) refuse a stale leader with the current term
		2.) persist the snapshot, drop the log prefix it replaces, and hand the
			data to the restore callback so the state machine catches up
		3.) the applied and commit cursors jump to the snapshot's last included
			index, entries beyond it still arrive through append entries
*/

func (node *RaftNode) HandleInstallSnapshot(args *InstallSnapshotArgs) *InstallSnapshotReply {
	node.mu.Lock()
	defer node.mu.Unlock()

	if args.Term < node.currentTerm {
		return &InstallSnapshotReply{ Term: node.currentTerm, Success: false }
	}

	if args.Term > node.currentTerm { node.stepDown(args.Term) }

	node.role = Follower
	node.leaderId = args.LeaderId
	node.lastContact = time.Now()

	if args.LastIncludedIndex <= node.snapshotIndex {
		return &InstallSnapshotReply{ Term: node.currentTerm, Success: true }
	}

	snapshot := &wal.SnapshotEntry{
		LastIncludedIndex: args.LastIncludedIndex,
		LastIncludedTerm: args.LastIncludedTerm,
		Data: args.Data,
	}

	setErr := node.wal.SetSnapshot(snapshot)
	if setErr != nil {
		Log.Error("unable to persist installed snapshot:", setErr.Error())
		return &InstallSnapshotReply{ Term: node.currentTerm, Success: false }
	}

	deleteErr := node.wal.DeleteUpTo(args.LastIncludedIndex)
	if deleteErr != nil {
		Log.Error("unable to drop log prefix behind snapshot:", deleteErr.Error())
		return &InstallSnapshotReply{ Term: node.currentTerm, Success: false }
	}

	node.snapshotIndex = args.LastIncludedIndex
	node.snapshotTerm = args.LastIncludedTerm

	if node.lastLogIndex < args.LastIncludedIndex {
		node.lastLogIndex = args.LastIncludedIndex
		node.lastLogTerm = args.LastIncludedTerm
	}

	if node.commitIndex < args.LastIncludedIndex { node.commitIndex = args.LastIncludedIndex }
	if node.lastApplied < args.LastIncludedIndex { node.lastApplied = args.LastIncludedIndex }

	if node.restoreFunc != nil {
		restoreErr := node.restoreFunc(snapshot)
		if restoreErr != nil { Log.Error("snapshot restore callback failed:", restoreErr.Error()) }
	}

	return &InstallSnapshotReply{ Term: node.currentTerm, Success: true }
}

func (node *RaftNode) HandleInstallSnapshotResponse(from string, reply *InstallSnapshotReply) {
	node.mu.Lock()
	defer node.mu.Unlock()

	if reply.Term > node.currentTerm {
		node.stepDown(reply.Term)
		return
	}

	if node.role != Leader || ! reply.Success { return }

	if node.snapshotIndex > node.matchIndex[from] { node.matchIndex[from] = node.snapshotIndex }
	node.nextIndex[from] = node.matchIndex[from] + 1

	node.advanceCommitIndex()
}
