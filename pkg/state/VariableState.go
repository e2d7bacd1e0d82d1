package state

import "bytes"
import "encoding/json"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Variable State


/*
	Set Variable Local
		upsert a variable in its declaring scope, keyed by (scope, name)
		--> an update keeps the key the variable was created with
*/

func (varState *VariableState) SetVariableLocal(key int64, scopeKey int64, processKey int64, name string, value json.RawMessage) error {
	transaction := func(tx *bolt.Tx) error {
		variableBucket := tx.Bucket([]byte(VariableBucket))

		instance := &VariableInstance{
			Key: key,
			Name: name,
			Value: value,
			ScopeKey: scopeKey,
			ProcessKey: processKey,
		}

		existing := variableBucket.Get(ScopedKey(scopeKey, name))
		if existing != nil {
			current, decErr := utils.DecodeBytesToStruct[VariableInstance](existing)
			if decErr != nil { return decErr }

			instance.Key = current.Key
		}

		encoded, encErr := utils.EncodeStructToBytes[*VariableInstance](instance)
		if encErr != nil { return encErr }

		putErr := variableBucket.Put(ScopedKey(scopeKey, name), encoded)
		if putErr != nil { return putErr }

		return nil
	}

	setErr := varState.db.Update(transaction)
	if setErr != nil { return setErr }

	return nil
}

/*
	Get Variable Instance Local
		only the requested scope is considered, never ancestors or descendants
		--> nil with no error when the variable is not declared in the scope
*/

func (varState *VariableState) GetVariableInstanceLocal(scopeKey int64, name string) (*VariableInstance, error) {
	var instance *VariableInstance

	transaction := func(tx *bolt.Tx) error {
		variableBucket := tx.Bucket([]byte(VariableBucket))

		val := variableBucket.Get(ScopedKey(scopeKey, name))
		if val == nil { return nil }

		decoded, decErr := utils.DecodeBytesToStruct[VariableInstance](val)
		if decErr != nil { return decErr }

		instance = decoded

		return nil
	}

	readErr := varState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return instance, nil
}

func (varState *VariableState) GetVariableLocal(scopeKey int64, name string) (json.RawMessage, error) {
	instance, getErr := varState.GetVariableInstanceLocal(scopeKey, name)
	if getErr != nil { return nil, getErr }

	if instance == nil { return nil, nil }
	return instance.Value, nil
}

/*
	Get Variable
		effective variable lookup, walking from the requested scope up the flow
		scope chain, first local match wins
*/

func (varState *VariableState) GetVariable(scopeKey int64, name string) (json.RawMessage, error) {
	var value json.RawMessage

	transaction := func(tx *bolt.Tx) error {
		variableBucket := tx.Bucket([]byte(VariableBucket))
		scopeBucket := tx.Bucket([]byte(ScopeBucket))

		currentScope := scopeKey
		for currentScope != NoParent {
			val := variableBucket.Get(ScopedKey(currentScope, name))
			if val != nil {
				decoded, decErr := utils.DecodeBytesToStruct[VariableInstance](val)
				if decErr != nil { return decErr }

				value = decoded.Value
				return nil
			}

			currentScope = parentScopeKey(scopeBucket, currentScope)
		}

		return nil
	}

	readErr := varState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return value, nil
}

/*
	Get Variables As Document
		collect the effective variables visible from the given scope into a json
		document
			1.) walk from the requested scope to the root of the scope chain
			2.) a nearer scope shadows an ancestor scope with the same name
			3.) when names are provided, only the intersecting, existing names are
				returned
*/

func (varState *VariableState) GetVariablesAsDocument(scopeKey int64, names ...string) (json.RawMessage, error) {
	collected := make(map[string]json.RawMessage)

	requested := make(map[string]bool)
	for _, name := range names {
		requested[name] = true
	}

	transaction := func(tx *bolt.Tx) error {
		variableBucket := tx.Bucket([]byte(VariableBucket))
		scopeBucket := tx.Bucket([]byte(ScopeBucket))

		currentScope := scopeKey
		for currentScope != NoParent {
			collectErr := collectLocalVariables(variableBucket, currentScope, func(instance *VariableInstance) {
				if len(requested) > 0 && ! requested[instance.Name] { return }

				_, shadowed := collected[instance.Name]
				if ! shadowed { collected[instance.Name] = instance.Value }
			})

			if collectErr != nil { return collectErr }

			currentScope = parentScopeKey(scopeBucket, currentScope)
		}

		return nil
	}

	readErr := varState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	document, encErr := json.Marshal(collected)
	if encErr != nil { return nil, encErr }

	return document, nil
}

/*
	Get Variables Local As Document
		only variables declared directly in the scope, no chain walk
*/

func (varState *VariableState) GetVariablesLocalAsDocument(scopeKey int64) (json.RawMessage, error) {
	collected := make(map[string]json.RawMessage)

	transaction := func(tx *bolt.Tx) error {
		variableBucket := tx.Bucket([]byte(VariableBucket))

		return collectLocalVariables(variableBucket, scopeKey, func(instance *VariableInstance) {
			collected[instance.Name] = instance.Value
		})
	}

	readErr := varState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	document, encErr := json.Marshal(collected)
	if encErr != nil { return nil, encErr }

	return document, nil
}

func (varState *VariableState) RemoveAllVariables(scopeKey int64) error {
	transaction := func(tx *bolt.Tx) error {
		variableBucket := tx.Bucket([]byte(VariableBucket))
		return removeLocalVariables(variableBucket, scopeKey)
	}

	removeErr := varState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}

/*
	Remove Scope
		drop the scope entry and every variable declared in the scope
		--> removing a non existent scope is a no-op
*/

func (varState *VariableState) RemoveScope(scopeKey int64) error {
	transaction := func(tx *bolt.Tx) error {
		variableBucket := tx.Bucket([]byte(VariableBucket))
		scopeBucket := tx.Bucket([]byte(ScopeBucket))

		varDelErr := removeLocalVariables(variableBucket, scopeKey)
		if varDelErr != nil { return varDelErr }

		scopeDelErr := scopeBucket.Delete(ConvertKeyToBytes(scopeKey))
		if scopeDelErr != nil { return scopeDelErr }

		return nil
	}

	removeErr := varState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}

func (varState *VariableState) GetParentScopeKey(scopeKey int64) (int64, error) {
	parent := NoParent

	transaction := func(tx *bolt.Tx) error {
		scopeBucket := tx.Bucket([]byte(ScopeBucket))
		parent = parentScopeKey(scopeBucket, scopeKey)

		return nil
	}

	readErr := varState.db.View(transaction)
	if readErr != nil { return NoParent, readErr }

	return parent, nil
}


//=========================================== temporary variables


/*
	temporary variables are an opaque per scope payload buffer with an
	independent lifecycle, never part of the scope chain lookup
*/

func (varState *VariableState) SetTemporaryVariables(scopeKey int64, payload []byte) error {
	transaction := func(tx *bolt.Tx) error {
		tempBucket := tx.Bucket([]byte(TempVariableBucket))
		return tempBucket.Put(ConvertKeyToBytes(scopeKey), payload)
	}

	setErr := varState.db.Update(transaction)
	if setErr != nil { return setErr }

	return nil
}

func (varState *VariableState) GetTemporaryVariables(scopeKey int64) ([]byte, error) {
	var payload []byte

	transaction := func(tx *bolt.Tx) error {
		tempBucket := tx.Bucket([]byte(TempVariableBucket))

		val := tempBucket.Get(ConvertKeyToBytes(scopeKey))
		if val != nil {
			payload = make([]byte, len(val))
			copy(payload, val)
		}

		return nil
	}

	readErr := varState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return payload, nil
}

func (varState *VariableState) RemoveTemporaryVariables(scopeKey int64) error {
	transaction := func(tx *bolt.Tx) error {
		tempBucket := tx.Bucket([]byte(TempVariableBucket))
		return tempBucket.Delete(ConvertKeyToBytes(scopeKey))
	}

	removeErr := varState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}


//=========================================== shared bucket helpers


func parentScopeKey(scopeBucket *bolt.Bucket, scopeKey int64) int64 {
	val := scopeBucket.Get(ConvertKeyToBytes(scopeKey))
	if val == nil { return NoParent }

	return ConvertBytesToKey(val)
}

func collectLocalVariables(variableBucket *bolt.Bucket, scopeKey int64, visit func(*VariableInstance)) error {
	prefix := ConvertKeyToBytes(scopeKey)
	cursor := variableBucket.Cursor()

	for key, val := cursor.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, val = cursor.Next() {
		instance, decErr := utils.DecodeBytesToStruct[VariableInstance](val)
		if decErr != nil { return decErr }

		visit(instance)
	}

	return nil
}

func removeLocalVariables(variableBucket *bolt.Bucket, scopeKey int64) error {
	prefix := ConvertKeyToBytes(scopeKey)
	cursor := variableBucket.Cursor()

	key, _ := cursor.Seek(prefix)
	for key != nil && bytes.HasPrefix(key, prefix) {
		delErr := cursor.Delete()
		if delErr != nil { return delErr }

		key, _ = cursor.Next()
	}

	return nil
}
