package wal

import "bytes"
import "errors"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/log"


//=========================================== Write Ahead Log Replog Bucket Ops


/*
	Append
		create a read-write transaction for the bucket to append a single new entry
			1.) get the current bucket
			2.) transform the entry and key to byte arrays
			3.) put the key and value in the bucket
*/

func (wal *WAL) Append(entry *log.LogEntry) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		key := ConvertIntToBytes(entry.Index)

		value, transformErr := log.TransformLogEntryToBytes(entry)
		if transformErr != nil { return transformErr }

		putErr := bucket.Put(key, value)
		if putErr != nil { return putErr }

		return nil
	}

	appendErr := wal.DB.Update(transaction)
	if appendErr != nil { return appendErr }

	return nil
}

/*
	Range Append
		create a read-write transaction for the bucket to append a set of new entries
*/

func (wal *WAL) RangeAppend(entries []*log.LogEntry) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		for _, entry := range entries {
			key := ConvertIntToBytes(entry.Index)

			value, transformErr := log.TransformLogEntryToBytes(entry)
			if transformErr != nil { return transformErr }

			putErr := bucket.Put(key, value)
			if putErr != nil { return putErr }
		}

		return nil
	}

	rangeUpdateErr := wal.DB.Update(transaction)
	if rangeUpdateErr != nil { return rangeUpdateErr }

	return nil
}

/*
	Read
		random access read of a single entry by index
		--> a nil entry with no error signifies the index is not present
		--> a value that fails to decode indicates on disk corruption, which is
			fatal for the replica, so the error is propagated
*/

func (wal *WAL) Read(index int64) (*log.LogEntry, error) {
	var entry *log.LogEntry

	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		val := bucket.Get(ConvertIntToBytes(index))
		if val == nil { return nil }

		incoming, transformErr := log.TransformBytesToLogEntry(val)
		if transformErr != nil { return errors.New("corrupt log entry at index, refusing to serve: " + transformErr.Error()) }

		entry = incoming

		return nil
	}

	readErr := wal.DB.View(transaction)
	if readErr != nil { return nil, readErr }

	return entry, nil
}

/*
	Get Range
		create a read transaction for getting an inclusive range of entries
*/

func (wal *WAL) GetRange(startIndex int64, endIndex int64) ([]*log.LogEntry, error) {
	var entries []*log.LogEntry

	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		startKey := ConvertIntToBytes(startIndex)
		endKey := ConvertIntToBytes(endIndex)

		cursor := bucket.Cursor()

		for key, val := cursor.Seek(startKey); key != nil && bytes.Compare(key, endKey) <= 0; key, val = cursor.Next() {
			entry, transformErr := log.TransformBytesToLogEntry(val)
			if transformErr != nil { return transformErr }

			entries = append(entries, entry)
		}

		return nil
	}

	readErr := wal.DB.View(transaction)
	if readErr != nil { return nil, readErr }

	return entries, nil
}

/*
	Get Latest
		point a cursor at the last element in the bucket and decode it
*/

func (wal *WAL) GetLatest() (*log.LogEntry, error) {
	var latestEntry *log.LogEntry

	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		cursor := bucket.Cursor()
		_, val := cursor.Last()

		if val != nil {
			entry, transformErr := log.TransformBytesToLogEntry(val)
			if transformErr != nil { return transformErr }

			latestEntry = entry
		}

		return nil
	}

	readErr := wal.DB.View(transaction)
	if readErr != nil { return nil, readErr }

	return latestEntry, nil
}

/*
	Term At
		term lookup by index, 0 if the index is not present
*/

func (wal *WAL) TermAt(index int64) (int64, error) {
	entry, readErr := wal.Read(index)
	if readErr != nil { return 0, readErr }

	if entry == nil { return 0, nil }
	return entry.Term, nil
}

func (wal *WAL) GetTotal() (int, error) {
	totalKeys := 0

	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		cursor := bucket.Cursor()

		for key, _ := cursor.First(); key != nil; key, _ = cursor.Next() {
			totalKeys++
		}

		return nil
	}

	readErr := wal.DB.View(transaction)
	if readErr != nil { return 0, readErr }

	return totalKeys, nil
}

/*
	Truncate From
		remove the conflicting suffix of the log starting at the given index
		--> used by followers when the log matching check fails
*/

func (wal *WAL) TruncateFrom(index int64) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		startKey := ConvertIntToBytes(index)

		cursor := bucket.Cursor()

		key, _ := cursor.Seek(startKey)
		for key != nil {
			delErr := cursor.Delete()
			if delErr != nil { return delErr }

			key, _ = cursor.Next()
		}

		return nil
	}

	truncateErr := wal.DB.Update(transaction)
	if truncateErr != nil { return truncateErr }

	return nil
}

/*
	Delete Up To
		compact the prefix of the log up to and including the given index, once a
		snapshot covers it
*/

func (wal *WAL) DeleteUpTo(endIndex int64) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(ReplogBucket))

		endKey := ConvertIntToBytes(endIndex)

		cursor := bucket.Cursor()

		key, _ := cursor.First()
		for key != nil && bytes.Compare(key, endKey) <= 0 {
			delErr := cursor.Delete()
			if delErr != nil { return delErr }

			key, _ = cursor.Next()
		}

		return nil
	}

	delErr := wal.DB.Update(transaction)
	if delErr != nil { return delErr }

	return nil
}
