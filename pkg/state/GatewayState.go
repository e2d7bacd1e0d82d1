package state

import bolt "go.etcd.io/bbolt"


//=========================================== Gateway Token State


/*
	joining parallel gateways count incoming token arrivals per
	(flow scope key, gateway element id) against a precomputed join threshold
*/

func (gwState *GatewayState) IncrementToken(flowScopeKey int64, gatewayId string) (int, error) {
	count := 0

	transaction := func(tx *bolt.Tx) error {
		tokenBucket := tx.Bucket([]byte(TokenBucket))

		key := ScopedKey(flowScopeKey, gatewayId)

		val := tokenBucket.Get(key)
		if val != nil { count = int(ConvertBytesToKey(val)) }

		count++

		return tokenBucket.Put(key, ConvertKeyToBytes(int64(count)))
	}

	incErr := gwState.db.Update(transaction)
	if incErr != nil { return 0, incErr }

	return count, nil
}

func (gwState *GatewayState) GetToken(flowScopeKey int64, gatewayId string) (int, error) {
	count := 0

	transaction := func(tx *bolt.Tx) error {
		tokenBucket := tx.Bucket([]byte(TokenBucket))

		val := tokenBucket.Get(ScopedKey(flowScopeKey, gatewayId))
		if val != nil { count = int(ConvertBytesToKey(val)) }

		return nil
	}

	readErr := gwState.db.View(transaction)
	if readErr != nil { return 0, readErr }

	return count, nil
}

/*
	Reset Token
		the count resets when the gateway fires, resetting an absent count is a
		no-op
*/

func (gwState *GatewayState) ResetToken(flowScopeKey int64, gatewayId string) error {
	transaction := func(tx *bolt.Tx) error {
		tokenBucket := tx.Bucket([]byte(TokenBucket))
		return tokenBucket.Delete(ScopedKey(flowScopeKey, gatewayId))
	}

	resetErr := gwState.db.Update(transaction)
	if resetErr != nil { return resetErr }

	return nil
}
