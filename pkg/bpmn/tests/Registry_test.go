package bpmntests

import "testing"

import "github.com/sirgallo/flow/pkg/bpmn"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"


func setupMockProcessors(t *testing.T) *bpmn.ElementProcessors {
	engineState, stateErr := state.NewState(t.TempDir())
	if stateErr != nil { t.Fatalf("unable to create or open engine state: %s", stateErr.Error()) }

	t.Cleanup(func() { engineState.Close() })

	behaviors := bpmn.NewBehaviors(engineState)
	return bpmn.NewElementProcessors(behaviors)
}

func TestGetProcessorForEveryModeledElementType(t *testing.T) {
	processors := setupMockProcessors(t)

	elementTypes := []record.ElementType{
		record.ProcessElement,
		record.SubProcessElement,
		record.EventSubProcessElement,
		record.MultiInstanceBodyElement,
		record.CallActivityElement,
		record.ServiceTaskElement,
		record.ReceiveTaskElement,
		record.ManualTaskElement,
		record.ExclusiveGatewayElement,
		record.ParallelGatewayElement,
		record.EventBasedGatewayElement,
		record.StartEventElement,
		record.EndEventElement,
		record.IntermediateCatchEventElement,
		record.IntermediateThrowEventElement,
		record.BoundaryEventElement,
	}

	for _, elementType := range elementTypes {
		processor, procErr := processors.GetProcessor(elementType)
		if procErr != nil { t.Errorf("actual error not equal to expected: actual(%s), expected(%v)\n", procErr.Error(), nil) }
		if processor == nil { t.Errorf("actual processor is nil for element type: %s\n", elementType) }
	}
}

func TestGetProcessorForUnknownElementType(t *testing.T) {
	processors := setupMockProcessors(t)

	processor, procErr := processors.GetProcessor(record.ElementType("UNKNOWN"))

	t.Logf("actual error: %v", procErr)
	if procErr == nil { t.Errorf("actual error is nil, expected an unknown element type error\n") }
	if processor != nil { t.Errorf("actual processor not equal to expected: actual(%v), expected(%v)\n", processor, nil) }
}

func TestGetContainerProcessorRejectsNonContainers(t *testing.T) {
	processors := setupMockProcessors(t)

	container, containerErr := processors.GetContainerProcessor(record.ManualTaskElement)

	t.Logf("actual error: %v", containerErr)
	if containerErr == nil { t.Errorf("actual error is nil, expected a container processor resolution error\n") }
	if container != nil { t.Errorf("actual container processor not equal to expected: actual(%v), expected(%v)\n", container, nil) }

	container, containerErr = processors.GetContainerProcessor(record.ProcessElement)
	if containerErr != nil { t.Errorf("actual error not equal to expected: actual(%s), expected(%v)\n", containerErr.Error(), nil) }
	if container == nil { t.Errorf("actual container processor is nil for element type: %s\n", record.ProcessElement) }
}
