package model

import "errors"

import "github.com/sirgallo/flow/pkg/record"


//=========================================== Executable Process Model


func NewExecutableProcess(processId string, processDefinitionKey int64) *ExecutableProcess {
	return &ExecutableProcess{
		ProcessId: processId,
		ProcessDefinitionKey: processDefinitionKey,
		Elements: make(map[string]*ExecutableFlowElement),
	}
}

/*
	add an element to the process model and index it by id
	--> the process root itself is represented as an element of type PROCESS
		with an empty flow scope id
*/

func (process *ExecutableProcess) AddElement(element *ExecutableFlowElement) *ExecutableProcess {
	process.Elements[element.Id] = element
	return process
}

func (process *ExecutableProcess) GetElement(elementId string) (*ExecutableFlowElement, error) {
	element, ok := process.Elements[elementId]
	if ! ok { return nil, errors.New("element not found in process model: " + elementId) }

	return element, nil
}

/*
	resolve the containing element for the given element
*/

func (process *ExecutableProcess) GetFlowScope(element *ExecutableFlowElement) *ExecutableFlowElement {
	if element.FlowScopeId == "" { return nil }
	return process.Elements[element.FlowScopeId]
}

/*
	the join threshold of a joining gateway is the number of incoming sequence
	flows, one token per flow
*/

func (element *ExecutableFlowElement) JoinThreshold() int {
	return len(element.Incoming)
}

func (element *ExecutableFlowElement) IsContainer() bool {
	switch element.ElementType {
		case record.ProcessElement, record.SubProcessElement, record.EventSubProcessElement,
			record.MultiInstanceBodyElement, record.CallActivityElement:
			return true
		default:
			return false
	}
}
