package wal

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Write Ahead Log Snapshot Bucket Ops


func (wal *WAL) SetSnapshot(snapshot *SnapshotEntry) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(SnapshotBucket))

		encoded, encErr := utils.EncodeStructToBytes[*SnapshotEntry](snapshot)
		if encErr != nil { return encErr }

		putErr := bucket.Put([]byte(SnapshotKey), encoded)
		if putErr != nil { return putErr }

		return nil
	}

	setErr := wal.DB.Update(transaction)
	if setErr != nil { return setErr }

	return nil
}

func (wal *WAL) GetSnapshot() (*SnapshotEntry, error) {
	var snapshot *SnapshotEntry

	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(SnapshotBucket))

		val := bucket.Get([]byte(SnapshotKey))
		if val == nil { return nil }

		decoded, decErr := utils.DecodeBytesToStruct[SnapshotEntry](val)
		if decErr != nil { return decErr }

		snapshot = decoded

		return nil
	}

	getErr := wal.DB.View(transaction)
	if getErr != nil { return nil, getErr }

	return snapshot, nil
}
