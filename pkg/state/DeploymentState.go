package state

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Deployment State


/*
	Put Deployment
		store a deployment record by its deployment key
*/

func (depState *DeploymentState) PutDeployment(deploymentKey int64, value *record.DeploymentRecordValue) error {
	transaction := func(tx *bolt.Tx) error {
		deploymentBucket := tx.Bucket([]byte(DeploymentBucket))

		encoded, encErr := utils.EncodeStructToBytes[*record.DeploymentRecordValue](value)
		if encErr != nil { return encErr }

		putErr := deploymentBucket.Put(ConvertKeyToBytes(deploymentKey), encoded)
		if putErr != nil { return putErr }

		return nil
	}

	putErr := depState.db.Update(transaction)
	if putErr != nil { return putErr }

	return nil
}

/*
	Get Deployment
		fetch a stored deployment record by key, nil with no error when absent
*/

func (depState *DeploymentState) GetDeployment(deploymentKey int64) (*record.DeploymentRecordValue, error) {
	var deployment *record.DeploymentRecordValue

	transaction := func(tx *bolt.Tx) error {
		deploymentBucket := tx.Bucket([]byte(DeploymentBucket))

		val := deploymentBucket.Get(ConvertKeyToBytes(deploymentKey))
		if val == nil { return nil }

		decoded, decErr := utils.DecodeBytesToStruct[record.DeploymentRecordValue](val)
		if decErr != nil { return decErr }

		deployment = decoded

		return nil
	}

	readErr := depState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return deployment, nil
}

/*
	Get Deployments
		all stored deployments by deployment key, used to rebuild the in memory
		process cache on startup
*/

func (depState *DeploymentState) GetDeployments() (map[int64]*record.DeploymentRecordValue, error) {
	deployments := make(map[int64]*record.DeploymentRecordValue)

	transaction := func(tx *bolt.Tx) error {
		deploymentBucket := tx.Bucket([]byte(DeploymentBucket))
		cursor := deploymentBucket.Cursor()

		for key, val := cursor.First(); key != nil; key, val = cursor.Next() {
			decoded, decErr := utils.DecodeBytesToStruct[record.DeploymentRecordValue](val)
			if decErr != nil { return decErr }

			deployments[ConvertBytesToKey(key)] = decoded
		}

		return nil
	}

	readErr := depState.db.View(transaction)
	if readErr != nil { return nil, readErr }

	return deployments, nil
}

/*
	Remove Deployment
		removing a non existent deployment is a no-op
*/

func (depState *DeploymentState) RemoveDeployment(deploymentKey int64) error {
	transaction := func(tx *bolt.Tx) error {
		deploymentBucket := tx.Bucket([]byte(DeploymentBucket))
		return deploymentBucket.Delete(ConvertKeyToBytes(deploymentKey))
	}

	removeErr := depState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}


//=========================================== pending deployment distributions


/*
	a deployment pushed to other partitions is tracked as pending per
	(deployment key, partition) until the partition acknowledges it
*/

func (depState *DeploymentState) AddPendingDeploymentDistribution(deploymentKey int64, partitionId int32) error {
	transaction := func(tx *bolt.Tx) error {
		pendingBucket := tx.Bucket([]byte(PendingDistributionBucket))
		return pendingBucket.Put(pendingDistributionKey(deploymentKey, partitionId), []byte{ 1 })
	}

	addErr := depState.db.Update(transaction)
	if addErr != nil { return addErr }

	return nil
}

func (depState *DeploymentState) HasPendingDeploymentDistribution(deploymentKey int64) (bool, error) {
	hasPending := false

	transaction := func(tx *bolt.Tx) error {
		pendingBucket := tx.Bucket([]byte(PendingDistributionBucket))

		prefix := ConvertKeyToBytes(deploymentKey)
		cursor := pendingBucket.Cursor()

		key, _ := cursor.Seek(prefix)
		if key != nil && len(key) >= 8 && ConvertBytesToKey(key[:8]) == deploymentKey { hasPending = true }

		return nil
	}

	readErr := depState.db.View(transaction)
	if readErr != nil { return false, readErr }

	return hasPending, nil
}

/*
	Remove Pending Deployment Distribution
		removing a non existent pending distribution is a no-op
*/

func (depState *DeploymentState) RemovePendingDeploymentDistribution(deploymentKey int64, partitionId int32) error {
	transaction := func(tx *bolt.Tx) error {
		pendingBucket := tx.Bucket([]byte(PendingDistributionBucket))
		return pendingBucket.Delete(pendingDistributionKey(deploymentKey, partitionId))
	}

	removeErr := depState.db.Update(transaction)
	if removeErr != nil { return removeErr }

	return nil
}

func pendingDistributionKey(deploymentKey int64, partitionId int32) []byte {
	key := ConvertKeyToBytes(deploymentKey)
	return append(key, byte(partitionId >> 24), byte(partitionId >> 16), byte(partitionId >> 8), byte(partitionId))
}
