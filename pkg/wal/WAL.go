package wal

import "os"
import "path/filepath"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/logger"


//=========================================== Write Ahead Log


var Log = clog.NewCustomLog(NAME)

/*
	Write Ahead Log
		1.) open the db at the provided data path
		2.) create the replog, raft state, and snapshot buckets if they do not already exist

	the replog bucket is the durable append only replicated log, keyed by the big
	endian encoded entry index so bucket order is log order
*/

func NewWAL(dataPath string) (*WAL, error) {
	mkErr := os.MkdirAll(dataPath, 0755)
	if mkErr != nil { return nil, mkErr }

	dbPath := filepath.Join(dataPath, FileName)

	db, openErr := bolt.Open(dbPath, 0600, nil)
	if openErr != nil { return nil, openErr }

	initTransaction := func(tx *bolt.Tx) error {
		for _, bucketName := range []string{ ReplogBucket, StateBucket, SnapshotBucket } {
			_, createErr := tx.CreateBucketIfNotExists([]byte(bucketName))
			if createErr != nil { return createErr }
		}

		return nil
	}

	bucketErr := db.Update(initTransaction)
	if bucketErr != nil { return nil, bucketErr }

	return &WAL{
		DBFile: dbPath,
		DB: db,
	}, nil
}

func (wal *WAL) Close() error {
	return wal.DB.Close()
}
