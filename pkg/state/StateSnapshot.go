package state

import "bytes"
import "os"

import bolt "go.etcd.io/bbolt"


//=========================================== Engine State Snapshot


/*
	Snapshot
		serialize the full engine state
			1.) open a read transaction over the db
			2.) stream the db content into an in memory buffer
		the buffer is a consistent point in time copy of every bucket, the
		committed log below the snapshotted applied position can be compacted
		once it is persisted
*/

func (engineState *State) Snapshot() ([]byte, error) {
	buf := &bytes.Buffer{}

	transaction := func(tx *bolt.Tx) error {
		_, writeErr := tx.WriteTo(buf)
		if writeErr != nil { return writeErr }

		return nil
	}

	snapshotErr := engineState.DB.View(transaction)
	if snapshotErr != nil { return nil, snapshotErr }

	return buf.Bytes(), nil
}

/*
	Restore
		replace the engine state with a snapshot received from the leader
			1.) close the open db handle
			2.) overwrite the db file with the snapshot content
			3.) reopen the db and re point the sub store views at the new handle
*/

func (engineState *State) Restore(data []byte) error {
	closeErr := engineState.DB.Close()
	if closeErr != nil { return closeErr }

	writeErr := os.WriteFile(engineState.DBFile, data, 0600)
	if writeErr != nil { return writeErr }

	db, openErr := bolt.Open(engineState.DBFile, 0600, nil)
	if openErr != nil { return openErr }

	engineState.DB = db
	engineState.ElementInstances.db = db
	engineState.Variables.db = db
	engineState.Deployments.db = db
	engineState.Subscriptions.db = db
	engineState.Gateways.db = db
	engineState.Incidents.db = db
	engineState.KeyGenerator.db = db

	return nil
}
