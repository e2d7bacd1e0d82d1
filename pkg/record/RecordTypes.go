package record

import "encoding/json"


type ValueType string

const (
	ProcessInstanceValue ValueType = "PROCESS_INSTANCE"
	VariableValue        ValueType = "VARIABLE"
	IncidentValue        ValueType = "INCIDENT"
	DeploymentValue      ValueType = "DEPLOYMENT"
	MessageValue         ValueType = "MESSAGE"
)

type Intent string

const (
	ElementActivating  Intent = "ELEMENT_ACTIVATING"
	ElementActivated   Intent = "ELEMENT_ACTIVATED"
	ElementCompleting  Intent = "ELEMENT_COMPLETING"
	ElementCompleted   Intent = "ELEMENT_COMPLETED"
	ElementTerminating Intent = "ELEMENT_TERMINATING"
	ElementTerminated  Intent = "ELEMENT_TERMINATED"
	EventOccurred      Intent = "EVENT_OCCURRED"

	VariableCreated Intent = "CREATED"
	VariableUpdated Intent = "UPDATED"

	IncidentCreated  Intent = "CREATED"
	IncidentResolved Intent = "RESOLVED"

	DeploymentCreated     Intent = "CREATED"
	DeploymentDistributed Intent = "DISTRIBUTED"
)

type ElementType string

const (
	ProcessElement                ElementType = "PROCESS"
	SubProcessElement             ElementType = "SUB_PROCESS"
	EventSubProcessElement        ElementType = "EVENT_SUB_PROCESS"
	MultiInstanceBodyElement      ElementType = "MULTI_INSTANCE_BODY"
	CallActivityElement           ElementType = "CALL_ACTIVITY"
	ServiceTaskElement            ElementType = "SERVICE_TASK"
	ReceiveTaskElement            ElementType = "RECEIVE_TASK"
	ManualTaskElement             ElementType = "MANUAL_TASK"
	ExclusiveGatewayElement       ElementType = "EXCLUSIVE_GATEWAY"
	ParallelGatewayElement        ElementType = "PARALLEL_GATEWAY"
	EventBasedGatewayElement      ElementType = "EVENT_BASED_GATEWAY"
	StartEventElement             ElementType = "START_EVENT"
	EndEventElement               ElementType = "END_EVENT"
	IntermediateCatchEventElement ElementType = "INTERMEDIATE_CATCH_EVENT"
	IntermediateThrowEventElement ElementType = "INTERMEDIATE_THROW_EVENT"
	BoundaryEventElement          ElementType = "BOUNDARY_EVENT"
)

/*
	the committed record stream is an ordered, partitioned sequence of typed records

	Key --> the unique key of the entity the record refers to, assigned on apply
	Value --> the json encoded payload for the value type
*/

type Record struct {
	PartitionId int32           `json:"partitionId"`
	Key         int64           `json:"key"`
	ValueType   ValueType       `json:"valueType"`
	Intent      Intent          `json:"intent"`
	Value       json.RawMessage `json:"value"`
}

type ProcessInstanceRecordValue struct {
	ElementId             string      `json:"elementId"`
	ElementType           ElementType `json:"elementType"`
	ProcessDefinitionKey  int64       `json:"processDefinitionKey"`
	ProcessInstanceKey    int64       `json:"processInstanceKey"`
	FlowScopeKey          int64       `json:"flowScopeKey"`

	// optional initial payload, promoted to local variables on activation
	Variables json.RawMessage `json:"variables,omitempty"`
}

type VariableRecordValue struct {
	Name               string          `json:"name"`
	Value              json.RawMessage `json:"value"`
	ScopeKey           int64           `json:"scopeKey"`
	ProcessInstanceKey int64           `json:"processInstanceKey"`
}

type IncidentRecordValue struct {
	ErrorType          string `json:"errorType"`
	ErrorMessage       string `json:"errorMessage"`
	ElementInstanceKey int64  `json:"elementInstanceKey"`
	ElementId          string `json:"elementId"`
	ProcessInstanceKey int64  `json:"processInstanceKey"`
}

type MessageRecordValue struct {
	Name      string          `json:"name"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

type DeploymentRecordValue struct {
	ProcessId            string `json:"processId"`
	ProcessDefinitionKey int64  `json:"processDefinitionKey"`
	Resource             []byte `json:"resource"`
}
