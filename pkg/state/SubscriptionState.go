package state

import "bytes"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Event Subscription State


/*
	event subscriptions are keyed by (scope key, subscription name) so all
	subscriptions opened by one scope, e.g. an event based gateway, are adjacent
	and can be cancelled together when the first event resolves
*/

func (subState *SubscriptionState) PutSubscription(subscription *EventSubscription) error {
	transaction := func(tx *bolt.Tx) error {
		subscriptionBucket := tx.Bucket([]byte(SubscriptionBucket))

		encoded, encErr := utils.EncodeStructToBytes[*EventSubscription](subscription)
		if encErr != nil { return encErr }

		putErr := subscriptionBucket.Put(ScopedKey(subscription.ScopeKey, subscription.SubscriptionName), encoded)
		if putErr != nil { return putErr }

		return nil
	}

	putErr := subState.db.Update(transaction)
	if putErr != nil { return putErr }

	return nil
}

func (subState *SubscriptionState) GetSubscription(scopeKey int64, subscriptionName string) (*EventSubscription, error) {
	var subscription *EventSubscription

	transaction := func(tx *bolt.Tx) error {
		subscriptionBucket := tx.Bucket([]byte(SubscriptionBucket))

		val := subscriptionBucket.Get(ScopedKey(scopeKey, subscriptionName))
		if val == nil { return nil }

		decoded, decErr := utils.DecodeBytesToStruct[EventSubscription](val)
		if decErr != nil { return decErr }

		subscription = decoded

		return nil
	}

	readErr := subState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return subscription, nil
}

func (subState *SubscriptionState) GetSubscriptionsForScope(scopeKey int64) ([]*EventSubscription, error) {
	var subscriptions []*EventSubscription

	transaction := func(tx *bolt.Tx) error {
		subscriptionBucket := tx.Bucket([]byte(SubscriptionBucket))

		prefix := ConvertKeyToBytes(scopeKey)
		cursor := subscriptionBucket.Cursor()

		for key, val := cursor.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, val = cursor.Next() {
			subscription, decErr := utils.DecodeBytesToStruct[EventSubscription](val)
			if decErr != nil { return decErr }

			subscriptions = append(subscriptions, subscription)
		}

		return nil
	}

	readErr := subState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return subscriptions, nil
}

/*
	Remove Subscription
		removing a non existent subscription is a no-op
*/

func (subState *SubscriptionState) RemoveSubscription(scopeKey int64, subscriptionName string) error {
	transaction := func(tx *bolt.Tx) error {
		subscriptionBucket := tx.Bucket([]byte(SubscriptionBucket))
		return subscriptionBucket.Delete(ScopedKey(scopeKey, subscriptionName))
	}

	removeErr := subState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}

/*
	Find Subscription By Name
		the first open subscription for the name in key order, nil with no error
		when none is open. scan order is fixed so correlation is deterministic
		across replicas
*/

func (subState *SubscriptionState) FindSubscriptionByName(subscriptionName string) (*EventSubscription, error) {
	var match *EventSubscription

	transaction := func(tx *bolt.Tx) error {
		subscriptionBucket := tx.Bucket([]byte(SubscriptionBucket))
		cursor := subscriptionBucket.Cursor()

		for key, val := cursor.First(); key != nil; key, val = cursor.Next() {
			subscription, decErr := utils.DecodeBytesToStruct[EventSubscription](val)
			if decErr != nil { return decErr }

			if subscription.SubscriptionName == subscriptionName {
				match = subscription
				return nil
			}
		}

		return nil
	}

	readErr := subState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return match, nil
}

/*
	Remove Subscriptions For Scope
		race-to-first semantics, the winning event cancels all sibling
		subscriptions in one sweep. removing for a scope with none is a no-op
*/

func (subState *SubscriptionState) RemoveSubscriptionsForScope(scopeKey int64) error {
	transaction := func(tx *bolt.Tx) error {
		subscriptionBucket := tx.Bucket([]byte(SubscriptionBucket))

		prefix := ConvertKeyToBytes(scopeKey)
		cursor := subscriptionBucket.Cursor()

		key, _ := cursor.Seek(prefix)
		for key != nil && bytes.HasPrefix(key, prefix) {
			delErr := cursor.Delete()
			if delErr != nil { return delErr }

			key, _ = cursor.Next()
		}

		return nil
	}

	removeErr := subState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}
