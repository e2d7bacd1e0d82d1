package log

import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Log Utils


/*
	Transform Log Entry To Bytes:
		convert entries to byte array to be applied to the WAL
*/

func TransformLogEntryToBytes(entry *LogEntry) ([]byte, error) {
	logAsBytes, encErr := utils.EncodeStructToBytes[*LogEntry](entry)
	if encErr != nil { return nil, encErr }

	return logAsBytes, nil
}

/*
	Transform Bytes To Log Entry:
		convert entries from the WAL from byte array back to log entry
*/

func TransformBytesToLogEntry(data []byte) (*LogEntry, error) {
	logEntry, decErr := utils.DecodeBytesToStruct[LogEntry](data)
	if decErr != nil { return nil, decErr }

	return logEntry, nil
}

/*
	determine the last log index and term for a replicated log
	--> -1 index and 0 term represent an empty log
*/

func DetermineLastLogIdxAndTerm(entries []*LogEntry) (int64, int64) {
	logLength := len(entries)
	var lastLogIndex, lastLogTerm int64

	if logLength > 0 {
		lastLog := entries[logLength - 1]
		lastLogIndex = lastLog.Index
		lastLogTerm = lastLog.Term
	} else {
		lastLogIndex = -1
		lastLogTerm = 0
	}

	return lastLogIndex, lastLogTerm
}
