package state

import "encoding/json"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/flow/pkg/record"


const NAME = "State"
const FileName = "engine.db"

const (
	ElementInstanceBucket     = "elementinstances"
	ScopeBucket               = "scopes"
	VariableBucket            = "variables"
	TempVariableBucket        = "tempvariables"
	DeploymentBucket          = "deployments"
	PendingDistributionBucket = "pendingdistributions"
	SubscriptionBucket        = "subscriptions"
	TokenBucket               = "tokens"
	IncidentBucket            = "incidents"
	KeyGenBucket              = "keys"
)

// parent scope key of a root scope
const NoParent int64 = -1

/*
	the handle sub stores run their transactions against

	the shared *bolt.DB satisfies it directly. a tx bound handle, built through
	WithTx, routes every call into one already open write transaction so an
	apply cascade and its applied position commit atomically.
*/

type store interface {
	Update(transaction func(tx *bolt.Tx) error) error
	View(transaction func(tx *bolt.Tx) error) error
}

/*
	the engine state store

	all buckets live in a single bbolt db per partition so the sequential apply
	path can mutate element instances, variables, and deployments in one
	transaction scope. sub stores share the db handle and are views over their
	own buckets.
*/

type State struct {
	DBFile string
	DB     *bolt.DB

	ElementInstances *ElementInstanceState
	Variables        *VariableState
	Deployments      *DeploymentState
	Subscriptions    *SubscriptionState
	Gateways         *GatewayState
	Incidents        *IncidentState
	KeyGenerator     *KeyGenerator
}

type ElementInstanceState struct {
	db store
}

type VariableState struct {
	db store
}

type DeploymentState struct {
	db store
}

type SubscriptionState struct {
	db store
}

type GatewayState struct {
	db store
}

type IncidentState struct {
	db store
}

type KeyGenerator struct {
	db store
}

/*
	mutable runtime record of an active process element

	children reference their parent through FlowScopeKey only, traversal is
	iterative lookup by key
*/

type ElementInstance struct {
	Key                  int64
	ElementId            string
	ElementType          record.ElementType
	Intent               record.Intent
	FlowScopeKey         int64
	ProcessInstanceKey   int64
	ProcessDefinitionKey int64

	// container bookkeeping
	ActiveChildren int

	// multi instance body bookkeeping
	TotalIterations     int
	CompletedIterations int
}

type VariableInstance struct {
	Key        int64
	Name       string
	Value      json.RawMessage
	ScopeKey   int64
	ProcessKey int64
}

type EventSubscription struct {
	ScopeKey         int64
	SubscriptionName string
	TargetElementId  string
	Interrupting     bool
}
