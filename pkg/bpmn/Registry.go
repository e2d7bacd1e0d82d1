package bpmn

import "fmt"

import "github.com/sirgallo/flow/pkg/record"


//=========================================== Element Processor Registry


/*
	maps the closed set of element types to their processor implementation

	the mapping is built once per engine instantiation from the shared behaviors
	bundle. absence of a mapping is a deployed model the registry cannot serve,
	a configuration integrity fault rather than a runtime recoverable condition
*/

type ElementProcessors struct {
	processors map[record.ElementType]ElementProcessor
}

func NewElementProcessors(behaviors *Behaviors) *ElementProcessors {
	processors := make(map[record.ElementType]ElementProcessor)

	// tasks
	processors[record.ServiceTaskElement] = &ServiceTaskProcessor{ behaviors: behaviors }
	processors[record.ReceiveTaskElement] = &ReceiveTaskProcessor{ behaviors: behaviors }
	processors[record.ManualTaskElement] = &ManualTaskProcessor{ behaviors: behaviors }

	// gateways
	processors[record.ExclusiveGatewayElement] = &ExclusiveGatewayProcessor{ behaviors: behaviors }
	processors[record.ParallelGatewayElement] = &ParallelGatewayProcessor{ behaviors: behaviors }
	processors[record.EventBasedGatewayElement] = &EventBasedGatewayProcessor{ behaviors: behaviors }

	// events
	processors[record.StartEventElement] = &StartEventProcessor{ behaviors: behaviors }
	processors[record.EndEventElement] = &EndEventProcessor{ behaviors: behaviors }
	processors[record.IntermediateCatchEventElement] = &IntermediateCatchEventProcessor{ behaviors: behaviors }
	processors[record.IntermediateThrowEventElement] = &IntermediateThrowEventProcessor{ behaviors: behaviors }
	processors[record.BoundaryEventElement] = &BoundaryEventProcessor{ behaviors: behaviors }

	// containers
	processors[record.ProcessElement] = &ProcessProcessor{ behaviors: behaviors }
	processors[record.SubProcessElement] = &SubProcessProcessor{ behaviors: behaviors }
	processors[record.EventSubProcessElement] = &EventSubProcessProcessor{ behaviors: behaviors }
	processors[record.MultiInstanceBodyElement] = &MultiInstanceBodyProcessor{ behaviors: behaviors }
	processors[record.CallActivityElement] = &CallActivityProcessor{ behaviors: behaviors }

	return &ElementProcessors{
		processors: processors,
	}
}

func (registry *ElementProcessors) GetProcessor(elementType record.ElementType) (ElementProcessor, error) {
	processor, ok := registry.processors[elementType]
	if ! ok {
		return nil, fmt.Errorf("expected to find an element processor for the element type '%s' but not found", elementType)
	}

	return processor, nil
}

/*
	containers are the only element types able to host child elements, resolving
	a container processor for any other type is the same configuration fault as
	an unknown type
*/

func (registry *ElementProcessors) GetContainerProcessor(elementType record.ElementType) (ContainerProcessor, error) {
	processor, ok := registry.processors[elementType]
	if ! ok {
		return nil, fmt.Errorf("expected to find a container processor for the element type '%s' but not found", elementType)
	}

	container, isContainer := processor.(ContainerProcessor)
	if ! isContainer {
		return nil, fmt.Errorf("expected to find a container processor for the element type '%s' but not found", elementType)
	}

	return container, nil
}
