package model

import "encoding/json"

import "github.com/sirgallo/flow/pkg/record"


/*
	the executable process model

	this is the output of the deployment/model parsing stage, which is outside of
	the engine. the engine receives an already validated tree of flow elements,
	addressed by element id, with flow scope relations expressed as ids.
*/

type ExecutableProcess struct {
	ProcessId            string
	ProcessDefinitionKey int64
	Elements             map[string]*ExecutableFlowElement
}

type ExecutableFlowElement struct {
	Id          string
	ElementType record.ElementType

	// id of the containing element, empty for the process root
	FlowScopeId string

	Outgoing []*SequenceFlow
	Incoming []string

	// containers
	ChildStartId string

	// exclusive gateway
	DefaultFlowId string

	// multi instance body
	InputCollection string
	InnerElementId  string

	// call activity
	CalledProcessId string

	// catch events, receive tasks, event based gateway targets
	SubscriptionName string

	// boundary events
	AttachedToId string
	Interrupting bool

	// service tasks
	JobType string
}

type SequenceFlow struct {
	Id        string
	TargetId  string
	Condition *Condition
}

/*
	conditions are evaluated against the effective variables of the gateway's
	flow scope, first matching flow wins
*/

type Condition struct {
	Variable string
	Equals   json.RawMessage
}
