package raft

import "time"

import "github.com/sirgallo/flow/pkg/log"


//=========================================== Log Replication


/*
	Tick Heartbeat
		leaders replicate on every tick, an empty append doubles as the
		heartbeat holding followers back from elections
*/

func (node *RaftNode) TickHeartbeat() {
	node.mu.Lock()
	defer node.mu.Unlock()

	if node.role != Leader { return }
	node.broadcastAppendEntries()
}

func (node *RaftNode) broadcastAppendEntries() {
	for _, peer := range node.peers {
		node.sendAppendEntries(peer)
	}
}

/*
	Send Append Entries
		build the append for one peer from its next index
			1.) a peer whose next index fell behind the snapshot floor cannot be
				caught up from the log, it receives the snapshot instead
			2.) otherwise ship every entry from the peer's next index to the log
				end, with the entry before it as the consistency check
*/

func (node *RaftNode) sendAppendEntries(peer string) {
	nextIdx, ok := node.nextIndex[peer]
	if ! ok { nextIdx = node.lastLogIndex + 1 }

	if node.snapshotIndex >= 0 && nextIdx <= node.snapshotIndex {
		node.sendInstallSnapshot(peer)
		return
	}

	prevLogIndex := nextIdx - 1
	prevLogTerm := node.termAt(prevLogIndex)

	var entries []*log.LogEntry
	if nextIdx <= node.lastLogIndex {
		logEntries, rangeErr := node.wal.GetRange(nextIdx, node.lastLogIndex)
		if rangeErr != nil {
			Log.Error("unable to read log range for peer:", peer, rangeErr.Error())
			return
		}

		entries = logEntries
	}

	args := &AppendEntriesArgs{
		Term: node.currentTerm,
		LeaderId: node.host,
		PrevLogIndex: prevLogIndex,
		PrevLogTerm: prevLogTerm,
		Entries: entries,
		LeaderCommit: node.commitIndex,
	}

	node.transport.SendAppendEntries(peer, args)
}

/*
	Handle Append Entries
		1.) a stale leader is refused with the current term
		2.) an append from the leader of the current or a newer term resets the
			election clock, a candidate observing it falls back to follower
		3.) the entry at PrevLogIndex must match PrevLogTerm, otherwise the
			append is refused and the local log end is hinted for fast backup
		4.) conflicting entries are truncated and the leader's entries appended,
			then the commit index follows the leader up to the local log end
*/

func (node *RaftNode) HandleAppendEntries(args *AppendEntriesArgs) *AppendEntriesReply {
	node.mu.Lock()
	defer node.mu.Unlock()

	if args.Term < node.currentTerm {
		return &AppendEntriesReply{ Term: node.currentTerm, Success: false, LatestLogIndex: node.lastLogIndex }
	}

	if args.Term > node.currentTerm { node.stepDown(args.Term) }

	node.role = Follower
	node.leaderId = args.LeaderId
	node.lastContact = time.Now()

	if args.PrevLogIndex >= 0 {
		if args.PrevLogIndex > node.lastLogIndex {
			return &AppendEntriesReply{ Term: node.currentTerm, Success: false, LatestLogIndex: node.lastLogIndex }
		}

		if node.termAt(args.PrevLogIndex) != args.PrevLogTerm {
			return &AppendEntriesReply{ Term: node.currentTerm, Success: false, LatestLogIndex: args.PrevLogIndex - 1 }
		}
	}

	appendErr := node.appendLeaderEntries(args.Entries)
	if appendErr != nil {
		Log.Error("unable to append leader entries:", appendErr.Error())
		return &AppendEntriesReply{ Term: node.currentTerm, Success: false, LatestLogIndex: node.lastLogIndex }
	}

	if args.LeaderCommit > node.commitIndex {
		node.commitIndex = min(args.LeaderCommit, node.lastLogIndex)
		node.applyCommitted()
	}

	return &AppendEntriesReply{ Term: node.currentTerm, Success: true, LatestLogIndex: node.lastLogIndex }
}

/*
	entries already present with the same term are skipped, the first
	conflicting entry truncates its suffix before the remainder appends
*/

func (node *RaftNode) appendLeaderEntries(entries []*log.LogEntry) error {
	var newEntries []*log.LogEntry

	for _, entry := range entries {
		if entry.Index <= node.lastLogIndex && len(newEntries) == 0 {
			if node.termAt(entry.Index) == entry.Term { continue }

			truncErr := node.wal.TruncateFrom(entry.Index)
			if truncErr != nil { return truncErr }

			node.lastLogIndex = entry.Index - 1
			node.lastLogTerm = node.termAt(node.lastLogIndex)
		}

		newEntries = append(newEntries, entry)
	}

	if len(newEntries) == 0 { return nil }

	rangeErr := node.wal.RangeAppend(newEntries)
	if rangeErr != nil { return rangeErr }

	node.lastLogIndex, node.lastLogTerm = log.DetermineLastLogIdxAndTerm(newEntries)

	return nil
}

func (node *RaftNode) HandleAppendEntriesResponse(from string, reply *AppendEntriesReply) {
	node.mu.Lock()
	defer node.mu.Unlock()

	if reply.Term > node.currentTerm {
		node.stepDown(reply.Term)
		return
	}

	if node.role != Leader || reply.Term != node.currentTerm { return }

	if reply.Success {
		if reply.LatestLogIndex > node.matchIndex[from] { node.matchIndex[from] = reply.LatestLogIndex }
		node.nextIndex[from] = node.matchIndex[from] + 1

		node.advanceCommitIndex()
		return
	}

	// back up and retry, the refusal hints how far behind the follower is
	backedUp := min(node.nextIndex[from] - 1, reply.LatestLogIndex + 1)
	if backedUp < 0 { backedUp = 0 }

	node.nextIndex[from] = backedUp
	node.sendAppendEntries(from)
}

/*
	Advance Commit Index
		commitment requires a quorum of match indexes at or beyond the candidate
		index AND the entry at that index to carry the current term. entries
		from prior terms only commit behind one of the current term.
*/

func (node *RaftNode) advanceCommitIndex() {
	for candidateIdx := node.lastLogIndex; candidateIdx > node.commitIndex; candidateIdx-- {
		if node.termAt(candidateIdx) != node.currentTerm { continue }

		replicated := 1
		for _, peer := range node.peers {
			if node.matchIndex[peer] >= candidateIdx { replicated++ }
		}

		if replicated >= node.quorum() {
			node.commitIndex = candidateIdx
			node.applyCommitted()
			return
		}
	}
}

/*
	apply committed entries in log order. an apply failure stops the cursor so
	the entry is retried on the next commit advance, committed effects are never
	skipped over
*/

func (node *RaftNode) applyCommitted() {
	for node.lastApplied < node.commitIndex {
		nextApply := node.lastApplied + 1

		entry, readErr := node.wal.Read(nextApply)
		if readErr != nil {
			Log.Error("unable to read committed entry at index:", nextApply, readErr.Error())
			return
		}

		if entry == nil {
			node.lastApplied = nextApply
			continue
		}

		if node.applyFunc != nil {
			applyErr := node.applyFunc(entry)
			if applyErr != nil {
				Log.Error("apply failed at index, retrying on next advance:", nextApply, applyErr.Error())
				return
			}
		}

		node.lastApplied = nextApply
	}
}

/*
	the noop a new leader appends in its own term, giving prior term entries
	something of the current term to commit behind
*/

func (node *RaftNode) appendNoop() *log.LogEntry {
	entry := &log.LogEntry{
		Index: node.lastLogIndex + 1,
		Term: node.currentTerm,
		EntryType: log.EntryNoop,
	}

	appendErr := node.wal.Append(entry)
	if appendErr != nil {
		Log.Error("unable to append noop entry:", appendErr.Error())
		return nil
	}

	return entry
}

func min(a int64, b int64) int64 {
	if a < b { return a }
	return b
}
