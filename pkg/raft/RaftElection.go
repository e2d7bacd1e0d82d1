package raft

import "time"


//=========================================== Leader Election


/*
	Tick Election
		start an election for the next term
			1.) move to candidate, vote for self, and persist term and vote
				before any rpc leaves the node
			2.) request votes from every peer with the local log end, peers
				holding a more complete log will refuse
*/

func (node *RaftNode) TickElection() {
	node.mu.Lock()
	defer node.mu.Unlock()

	if node.role == Leader { return }

	node.currentTerm++
	node.role = Candidate
	node.votedFor = node.host
	node.leaderId = ""
	node.votesReceived = map[string]bool{ node.host: true }
	node.lastContact = time.Now()

	node.persistDurableState()

	Log.Info("starting election for term:", node.currentTerm)

	if len(node.votesReceived) >= node.quorum() {
		node.becomeLeader()
		return
	}

	args := &RequestVoteArgs{
		Term: node.currentTerm,
		CandidateId: node.host,
		LastLogIndex: node.lastLogIndex,
		LastLogTerm: node.lastLogTerm,
	}

	for _, peer := range node.peers {
		node.transport.SendRequestVote(peer, args)
	}
}

/*
	Handle Request Vote
		1.) a higher term always moves this node to follower in that term
		2.) at most one vote per term, and only for a candidate whose log is at
			least as up to date: higher last term wins, same last term compares
			last index
*/

func (node *RaftNode) HandleRequestVote(args *RequestVoteArgs) *RequestVoteReply {
	node.mu.Lock()
	defer node.mu.Unlock()

	if args.Term > node.currentTerm { node.stepDown(args.Term) }

	granted := false

	if args.Term == node.currentTerm && (node.votedFor == "" || node.votedFor == args.CandidateId) && node.candidateUpToDate(args) {
		granted = true
		node.votedFor = args.CandidateId
		node.lastContact = time.Now()

		node.persistDurableState()
	}

	return &RequestVoteReply{
		Term: node.currentTerm,
		VoteGranted: granted,
	}
}

func (node *RaftNode) HandleRequestVoteResponse(from string, reply *RequestVoteReply) {
	node.mu.Lock()
	defer node.mu.Unlock()

	if reply.Term > node.currentTerm {
		node.stepDown(reply.Term)
		return
	}

	if node.role != Candidate || reply.Term != node.currentTerm { return }

	if reply.VoteGranted {
		node.votesReceived[from] = true
		if len(node.votesReceived) >= node.quorum() { node.becomeLeader() }
	}
}

func (node *RaftNode) candidateUpToDate(args *RequestVoteArgs) bool {
	if args.LastLogTerm != node.lastLogTerm { return args.LastLogTerm > node.lastLogTerm }
	return args.LastLogIndex >= node.lastLogIndex
}

/*
	Become Leader
		1.) reinitialize the replication indexes to the local log end
		2.) append a noop entry for the new term, entries from prior terms can
			only commit behind an entry of the current term
		3.) heartbeat immediately so the cluster learns the new leader without
			waiting a full interval
*/

func (node *RaftNode) becomeLeader() {
	node.role = Leader
	node.leaderId = node.host

	for _, peer := range node.peers {
		node.nextIndex[peer] = node.lastLogIndex + 1
		node.matchIndex[peer] = -1
	}

	noop := node.appendNoop()
	if noop != nil {
		node.lastLogIndex = noop.Index
		node.lastLogTerm = noop.Term
	}

	Log.Info("elected leader for term:", node.currentTerm)

	node.broadcastAppendEntries()
	node.advanceCommitIndex()
}

func (node *RaftNode) stepDown(term int64) {
	node.currentTerm = term
	node.role = Follower
	node.votedFor = ""
	node.votesReceived = make(map[string]bool)

	node.persistDurableState()
}
