package raftrpc


//=========================================== Raft RPC Types


type RequestVoteRequest struct {
	Term         int64  `json:"term"`
	CandidateId  string `json:"candidateId"`
	LastLogIndex int64  `json:"lastLogIndex"`
	LastLogTerm  int64  `json:"lastLogTerm"`
}

type RequestVoteResponse struct {
	Term        int64 `json:"term"`
	VoteGranted bool  `json:"voteGranted"`
}

type LogEntry struct {
	Index     int64  `json:"index"`
	Term      int64  `json:"term"`
	EntryType string `json:"entryType"`
	Command   []byte `json:"command"`
}

type AppendEntriesRequest struct {
	Term         int64       `json:"term"`
	LeaderId     string      `json:"leaderId"`
	PrevLogIndex int64       `json:"prevLogIndex"`
	PrevLogTerm  int64       `json:"prevLogTerm"`
	Entries      []*LogEntry `json:"entries"`
	LeaderCommit int64       `json:"leaderCommit"`
}

type AppendEntriesResponse struct {
	Term           int64 `json:"term"`
	Success        bool  `json:"success"`
	LatestLogIndex int64 `json:"latestLogIndex"`
}

type InstallSnapshotRequest struct {
	Term              int64  `json:"term"`
	LeaderId          string `json:"leaderId"`
	LastIncludedIndex int64  `json:"lastIncludedIndex"`
	LastIncludedTerm  int64  `json:"lastIncludedTerm"`
	Data              []byte `json:"data"`
}

type InstallSnapshotResponse struct {
	Term    int64 `json:"term"`
	Success bool  `json:"success"`
}

type ProposeRequest struct {
	RequestId string `json:"requestId"`
	Command   []byte `json:"command"`
}

type ProposeResponse struct {
	Accepted   bool   `json:"accepted"`
	Index      int64  `json:"index"`
	LeaderHint string `json:"leaderHint"`
}
