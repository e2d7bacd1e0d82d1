package state

import "os"
import "path/filepath"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/logger"


//=========================================== Engine State


var Log = clog.NewCustomLog(NAME)

/*
	Engine State
		1.) open the db at the provided data path
		2.) create the buckets for all sub stores
		3.) construct the sub store views over the shared db handle
*/

func NewState(dataPath string) (*State, error) {
	mkErr := os.MkdirAll(dataPath, 0755)
	if mkErr != nil { return nil, mkErr }

	dbPath := filepath.Join(dataPath, FileName)

	db, openErr := bolt.Open(dbPath, 0600, nil)
	if openErr != nil { return nil, openErr }

	initTransaction := func(tx *bolt.Tx) error {
		buckets := []string{
			ElementInstanceBucket, ScopeBucket, VariableBucket, TempVariableBucket,
			DeploymentBucket, PendingDistributionBucket, SubscriptionBucket, TokenBucket,
			IncidentBucket, KeyGenBucket,
		}

		for _, bucketName := range buckets {
			_, createErr := tx.CreateBucketIfNotExists([]byte(bucketName))
			if createErr != nil { return createErr }
		}

		return nil
	}

	bucketErr := db.Update(initTransaction)
	if bucketErr != nil { return nil, bucketErr }

	return &State{
		DBFile: dbPath,
		DB: db,
		ElementInstances: &ElementInstanceState{ db: db },
		Variables: &VariableState{ db: db },
		Deployments: &DeploymentState{ db: db },
		Subscriptions: &SubscriptionState{ db: db },
		Gateways: &GatewayState{ db: db },
		Incidents: &IncidentState{ db: db },
		KeyGenerator: &KeyGenerator{ db: db },
	}, nil
}

func (state *State) Close() error {
	return state.DB.Close()
}


//=========================================== transaction bound view


type boundStore struct {
	tx *bolt.Tx
}

func (bound *boundStore) Update(transaction func(tx *bolt.Tx) error) error { return transaction(bound.tx) }
func (bound *boundStore) View(transaction func(tx *bolt.Tx) error) error { return transaction(bound.tx) }

/*
	With Tx
		a view over the engine state bound to one open write transaction. every
		sub store call on the returned state runs inside that transaction, reads
		observe its uncommitted writes and nothing becomes visible to other
		readers until it commits. the view is only touched by the goroutine
		driving the transaction
*/

func (state *State) WithTx(tx *bolt.Tx) *State {
	bound := &boundStore{ tx: tx }

	return &State{
		DBFile: state.DBFile,
		DB: state.DB,
		ElementInstances: &ElementInstanceState{ db: bound },
		Variables: &VariableState{ db: bound },
		Deployments: &DeploymentState{ db: bound },
		Subscriptions: &SubscriptionState{ db: bound },
		Gateways: &GatewayState{ db: bound },
		Incidents: &IncidentState{ db: bound },
		KeyGenerator: &KeyGenerator{ db: bound },
	}
}
