package state

import bolt "go.etcd.io/bbolt"


//=========================================== Key Generator


/*
	Next Key
		monotonically increasing entity keys, assigned only on the sequential
		apply path. the counter lives in its own bucket so replaying the same
		committed log on any replica assigns identical keys
*/

func (keyGen *KeyGenerator) NextKey() (int64, error) {
	var next int64

	transaction := func(tx *bolt.Tx) error {
		keyBucket := tx.Bucket([]byte(KeyGenBucket))

		val := keyBucket.Get([]byte("counter"))
		if val != nil { next = ConvertBytesToKey(val) }

		next++

		return keyBucket.Put([]byte("counter"), ConvertKeyToBytes(next))
	}

	nextErr := keyGen.db.Update(transaction)
	if nextErr != nil { return 0, nextErr }

	return next, nil
}

/*
	the last applied log position is persisted next to the counter so a restart
	skips committed entries whose effects are already in the state db. the
	write goes through the key generator's store handle so on a tx bound state
	it lands in the same transaction as the cascade it concludes
*/

func (state *State) SetLastAppliedPosition(position int64) error {
	transaction := func(tx *bolt.Tx) error {
		keyBucket := tx.Bucket([]byte(KeyGenBucket))
		return keyBucket.Put([]byte("applied"), ConvertKeyToBytes(position))
	}

	setErr := state.KeyGenerator.db.Update(transaction)
	if setErr != nil { return setErr }

	return nil
}

func (state *State) GetLastAppliedPosition() (int64, error) {
	position := int64(-1)

	transaction := func(tx *bolt.Tx) error {
		keyBucket := tx.Bucket([]byte(KeyGenBucket))

		val := keyBucket.Get([]byte("applied"))
		if val != nil { position = ConvertBytesToKey(val) }

		return nil
	}

	readErr := state.KeyGenerator.db.View(transaction)
	if readErr != nil { return -1, readErr }

	return position, nil
}
