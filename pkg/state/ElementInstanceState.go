package state

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Element Instance State


/*
	New Instance
		create the runtime record for an element transition
			1.) store the instance record keyed by its element instance key
			2.) register the instance in the scope bucket, pointing at its parent
				flow scope (or NO_PARENT for a root scope)
			3.) increment the active child count on the parent instance
*/

func (eiState *ElementInstanceState) NewInstance(parentKey int64, key int64, value *record.ProcessInstanceRecordValue, intent record.Intent) error {
	transaction := func(tx *bolt.Tx) error {
		instanceBucket := tx.Bucket([]byte(ElementInstanceBucket))
		scopeBucket := tx.Bucket([]byte(ScopeBucket))

		instance := &ElementInstance{
			Key: key,
			ElementId: value.ElementId,
			ElementType: value.ElementType,
			Intent: intent,
			FlowScopeKey: parentKey,
			ProcessInstanceKey: value.ProcessInstanceKey,
			ProcessDefinitionKey: value.ProcessDefinitionKey,
		}

		putErr := putInstance(instanceBucket, instance)
		if putErr != nil { return putErr }

		scopeErr := scopeBucket.Put(ConvertKeyToBytes(key), ConvertKeyToBytes(parentKey))
		if scopeErr != nil { return scopeErr }

		if parentKey != NoParent {
			parent, getErr := getInstance(instanceBucket, parentKey)
			if getErr != nil { return getErr }

			if parent != nil {
				parent.ActiveChildren++

				parentPutErr := putInstance(instanceBucket, parent)
				if parentPutErr != nil { return parentPutErr }
			}
		}

		return nil
	}

	newErr := eiState.db.Update(transaction)
	if newErr != nil { return newErr }

	return nil
}

/*
	Get Instance
		a nil instance with no error signifies the key is not present
*/

func (eiState *ElementInstanceState) GetInstance(key int64) (*ElementInstance, error) {
	var instance *ElementInstance

	transaction := func(tx *bolt.Tx) error {
		instanceBucket := tx.Bucket([]byte(ElementInstanceBucket))

		incoming, getErr := getInstance(instanceBucket, key)
		if getErr != nil { return getErr }

		instance = incoming

		return nil
	}

	readErr := eiState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return instance, nil
}

func (eiState *ElementInstanceState) UpdateInstance(instance *ElementInstance) error {
	transaction := func(tx *bolt.Tx) error {
		instanceBucket := tx.Bucket([]byte(ElementInstanceBucket))
		return putInstance(instanceBucket, instance)
	}

	updateErr := eiState.db.Update(transaction)
	if updateErr != nil { return updateErr }

	return nil
}

func (eiState *ElementInstanceState) SetIntent(key int64, intent record.Intent) error {
	transaction := func(tx *bolt.Tx) error {
		instanceBucket := tx.Bucket([]byte(ElementInstanceBucket))

		instance, getErr := getInstance(instanceBucket, key)
		if getErr != nil { return getErr }
		if instance == nil { return nil }

		instance.Intent = intent

		return putInstance(instanceBucket, instance)
	}

	setErr := eiState.db.Update(transaction)
	if setErr != nil { return setErr }

	return nil
}

/*
	Remove Instance
		remove the instance record once the element fully completes or terminates
			1.) drop the instance record, its scope entry, and all variables
				declared in the scope, local and temporary
			2.) decrement the active child count on the parent instance

		removing a non existent instance is a no-op
*/

func (eiState *ElementInstanceState) RemoveInstance(key int64) error {
	transaction := func(tx *bolt.Tx) error {
		instanceBucket := tx.Bucket([]byte(ElementInstanceBucket))
		scopeBucket := tx.Bucket([]byte(ScopeBucket))
		variableBucket := tx.Bucket([]byte(VariableBucket))
		tempBucket := tx.Bucket([]byte(TempVariableBucket))

		instance, getErr := getInstance(instanceBucket, key)
		if getErr != nil { return getErr }
		if instance == nil { return nil }

		delErr := instanceBucket.Delete(ConvertKeyToBytes(key))
		if delErr != nil { return delErr }

		scopeDelErr := scopeBucket.Delete(ConvertKeyToBytes(key))
		if scopeDelErr != nil { return scopeDelErr }

		varDelErr := removeLocalVariables(variableBucket, key)
		if varDelErr != nil { return varDelErr }

		tempDelErr := tempBucket.Delete(ConvertKeyToBytes(key))
		if tempDelErr != nil { return tempDelErr }

		if instance.FlowScopeKey != NoParent {
			parent, parentGetErr := getInstance(instanceBucket, instance.FlowScopeKey)
			if parentGetErr != nil { return parentGetErr }

			if parent != nil && parent.ActiveChildren > 0 {
				parent.ActiveChildren--

				parentPutErr := putInstance(instanceBucket, parent)
				if parentPutErr != nil { return parentPutErr }
			}
		}

		return nil
	}

	removeErr := eiState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}

/*
	Get Children
		all direct children of a flow scope, in key order
*/

func (eiState *ElementInstanceState) GetChildren(parentKey int64) ([]*ElementInstance, error) {
	var children []*ElementInstance

	transaction := func(tx *bolt.Tx) error {
		instanceBucket := tx.Bucket([]byte(ElementInstanceBucket))

		cursor := instanceBucket.Cursor()

		for key, val := cursor.First(); key != nil; key, val = cursor.Next() {
			instance, decErr := utils.DecodeBytesToStruct[ElementInstance](val)
			if decErr != nil { return decErr }

			if instance.FlowScopeKey == parentKey { children = append(children, instance) }
		}

		return nil
	}

	readErr := eiState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return children, nil
}


//=========================================== shared bucket helpers


func getInstance(bucket *bolt.Bucket, key int64) (*ElementInstance, error) {
	val := bucket.Get(ConvertKeyToBytes(key))
	if val == nil { return nil, nil }

	instance, decErr := utils.DecodeBytesToStruct[ElementInstance](val)
	if decErr != nil { return nil, decErr }

	return instance, nil
}

func putInstance(bucket *bolt.Bucket, instance *ElementInstance) error {
	encoded, encErr := utils.EncodeStructToBytes[*ElementInstance](instance)
	if encErr != nil { return encErr }

	return bucket.Put(ConvertKeyToBytes(instance.Key), encoded)
}
