package log

import "github.com/sirgallo/flow/pkg/record"


type EntryType string

const (
	EntryCommand EntryType = "COMMAND"

	// appended by a newly elected leader so entries from prior terms can commit
	EntryNoop EntryType = "NOOP"
)

type LogEntry struct {
	Index     int64
	Term      int64
	EntryType EntryType
	Command   record.Record
}
