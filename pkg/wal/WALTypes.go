package wal

import bolt "go.etcd.io/bbolt"


const NAME = "WAL"
const FileName = "flow.db"

const (
	ReplogBucket   = "replog"
	StateBucket    = "raftstate"
	SnapshotBucket = "snapshot"
)

const (
	CurrentTermKey = "currentterm"
	SnapshotKey    = "latest"
)

type WAL struct {
	DBFile string
	DB     *bolt.DB
}

/*
	persistent term and vote state, reloaded before a replica resumes as follower
*/

type DurableState struct {
	CurrentTerm int64
	VotedFor    string
}

type SnapshotEntry struct {
	LastIncludedIndex int64
	LastIncludedTerm  int64
	Data              []byte
}
