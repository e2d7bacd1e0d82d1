package wal

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Write Ahead Log Raft State Bucket Ops


/*
	Set Durable State
		persist the current term and voted for fields before responding to any rpc
		that changed them, so a crashed replica resumes with its vote intact
*/

func (wal *WAL) SetDurableState(state DurableState) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(StateBucket))

		encoded, encErr := utils.EncodeStructToBytes[DurableState](state)
		if encErr != nil { return encErr }

		putErr := bucket.Put([]byte(CurrentTermKey), encoded)
		if putErr != nil { return putErr }

		return nil
	}

	setErr := wal.DB.Update(transaction)
	if setErr != nil { return setErr }

	return nil
}

func (wal *WAL) GetDurableState() (*DurableState, error) {
	var state *DurableState

	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(StateBucket))

		val := bucket.Get([]byte(CurrentTermKey))
		if val == nil { return nil }

		decoded, decErr := utils.DecodeBytesToStruct[DurableState](val)
		if decErr != nil { return decErr }

		state = decoded

		return nil
	}

	getErr := wal.DB.View(transaction)
	if getErr != nil { return nil, getErr }

	return state, nil
}
