package state

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Incident State


/*
	Put Incident
		store an open incident by its incident key
*/

func (incState *IncidentState) PutIncident(incidentKey int64, value *record.IncidentRecordValue) error {
	transaction := func(tx *bolt.Tx) error {
		incidentBucket := tx.Bucket([]byte(IncidentBucket))

		encoded, encErr := utils.EncodeStructToBytes[*record.IncidentRecordValue](value)
		if encErr != nil { return encErr }

		putErr := incidentBucket.Put(ConvertKeyToBytes(incidentKey), encoded)
		if putErr != nil { return putErr }

		return nil
	}

	putErr := incState.db.Update(transaction)
	if putErr != nil { return putErr }

	return nil
}

/*
	Get Incident
		fetch an open incident by key, nil with no error when absent
*/

func (incState *IncidentState) GetIncident(incidentKey int64) (*record.IncidentRecordValue, error) {
	var incident *record.IncidentRecordValue

	transaction := func(tx *bolt.Tx) error {
		incidentBucket := tx.Bucket([]byte(IncidentBucket))

		val := incidentBucket.Get(ConvertKeyToBytes(incidentKey))
		if val == nil { return nil }

		decoded, decErr := utils.DecodeBytesToStruct[record.IncidentRecordValue](val)
		if decErr != nil { return decErr }

		incident = decoded

		return nil
	}

	readErr := incState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return incident, nil
}

/*
	Get Incidents
		all open incidents in key order, the operator facing listing
*/

func (incState *IncidentState) GetIncidents() ([]*record.IncidentRecordValue, error) {
	var incidents []*record.IncidentRecordValue

	transaction := func(tx *bolt.Tx) error {
		incidentBucket := tx.Bucket([]byte(IncidentBucket))
		cursor := incidentBucket.Cursor()

		for key, val := cursor.First(); key != nil; key, val = cursor.Next() {
			decoded, decErr := utils.DecodeBytesToStruct[record.IncidentRecordValue](val)
			if decErr != nil { return decErr }

			incidents = append(incidents, decoded)
		}

		return nil
	}

	readErr := incState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return incidents, nil
}

/*
	Remove Incident
		removing a non existent incident is a no-op
*/

func (incState *IncidentState) RemoveIncident(incidentKey int64) error {
	transaction := func(tx *bolt.Tx) error {
		incidentBucket := tx.Bucket([]byte(IncidentBucket))
		return incidentBucket.Delete(ConvertKeyToBytes(incidentKey))
	}

	removeErr := incState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}
