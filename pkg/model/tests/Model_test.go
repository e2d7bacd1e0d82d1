package modeltests

import "testing"

import "github.com/sirgallo/flow/pkg/model"
import "github.com/sirgallo/flow/pkg/record"


func setupMockProcess() *model.ExecutableProcess {
	process := model.NewExecutableProcess("order-process", 1)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "order-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "order-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-join", TargetId: "join" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "join",
		ElementType: record.ParallelGatewayElement,
		FlowScopeId: "order-process",
		Incoming: []string{ "to-join", "other-join" },
	})

	return process
}

func TestGetElement(t *testing.T) {
	process := setupMockProcess()

	element, getErr := process.GetElement("start")
	if getErr != nil { t.Fatalf("error on getting element: %s", getErr.Error()) }

	t.Logf("actual element: %v", element)
	if element.Id != "start" { t.Errorf("actual element id not equal to expected: actual(%s), expected(%s)\n", element.Id, "start") }

	missing, missingErr := process.GetElement("unknown")

	t.Logf("actual error: %v", missingErr)
	if missingErr == nil { t.Errorf("actual error is nil, expected a not found error\n") }
	if missing != nil { t.Errorf("actual element not equal to expected: actual(%v), expected(%v)\n", missing, nil) }
}

func TestGetFlowScope(t *testing.T) {
	process := setupMockProcess()

	start, _ := process.GetElement("start")
	scope := process.GetFlowScope(start)

	t.Logf("actual flow scope: %v", scope)
	if scope == nil || scope.Id != "order-process" { t.Errorf("actual flow scope not equal to expected: actual(%v), expected(%s)\n", scope, "order-process") }

	root, _ := process.GetElement("order-process")

	if process.GetFlowScope(root) != nil { t.Errorf("actual flow scope for the root not equal to expected: actual(%v), expected(%v)\n", process.GetFlowScope(root), nil) }
}

func TestJoinThreshold(t *testing.T) {
	process := setupMockProcess()

	join, _ := process.GetElement("join")

	t.Logf("actual join threshold: %d", join.JoinThreshold())
	if join.JoinThreshold() != 2 { t.Errorf("actual join threshold not equal to expected: actual(%d), expected(%d)\n", join.JoinThreshold(), 2) }
}

func TestIsContainer(t *testing.T) {
	process := setupMockProcess()

	root, _ := process.GetElement("order-process")
	start, _ := process.GetElement("start")

	if ! root.IsContainer() { t.Errorf("actual container flag not equal to expected: actual(%t), expected(%t)\n", root.IsContainer(), true) }
	if start.IsContainer() { t.Errorf("actual container flag not equal to expected: actual(%t), expected(%t)\n", start.IsContainer(), false) }
}
