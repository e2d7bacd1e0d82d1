package streamtests

import "encoding/json"

import "github.com/sirgallo/flow/pkg/model"
import "github.com/sirgallo/flow/pkg/record"


//=========================================== Mock Process Models


func orderProcess() *model.ExecutableProcess {
	process := model.NewExecutableProcess("order-process", 0)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "order-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "order-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-confirm", TargetId: "confirm" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "confirm",
		ElementType: record.ManualTaskElement,
		FlowScopeId: "order-process",
		Incoming: []string{ "to-confirm" },
		Outgoing: []*model.SequenceFlow{ { Id: "to-done", TargetId: "done" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "done",
		ElementType: record.EndEventElement,
		FlowScopeId: "order-process",
		Incoming: []string{ "to-done" },
	})

	return process
}

func approvalProcess() *model.ExecutableProcess {
	process := model.NewExecutableProcess("approval-process", 0)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "approval-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "approval-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-route", TargetId: "route" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "route",
		ElementType: record.ExclusiveGatewayElement,
		FlowScopeId: "approval-process",
		Incoming: []string{ "to-route" },
		DefaultFlowId: "to-standard",
		Outgoing: []*model.SequenceFlow{
			{ Id: "to-expedite", TargetId: "expedite", Condition: &model.Condition{ Variable: "priority", Equals: json.RawMessage(`"high"`) } },
			{ Id: "to-standard", TargetId: "standard" },
		},
	}).AddElement(&model.ExecutableFlowElement{
		Id: "expedite",
		ElementType: record.ManualTaskElement,
		FlowScopeId: "approval-process",
		Incoming: []string{ "to-expedite" },
		Outgoing: []*model.SequenceFlow{ { Id: "expedite-done", TargetId: "done" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "standard",
		ElementType: record.ManualTaskElement,
		FlowScopeId: "approval-process",
		Incoming: []string{ "to-standard" },
		Outgoing: []*model.SequenceFlow{ { Id: "standard-done", TargetId: "done" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "done",
		ElementType: record.EndEventElement,
		FlowScopeId: "approval-process",
		Incoming: []string{ "expedite-done", "standard-done" },
	})

	return process
}

func shipmentProcess() *model.ExecutableProcess {
	process := model.NewExecutableProcess("shipment-process", 0)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "shipment-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "shipment-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-fork", TargetId: "fork" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "fork",
		ElementType: record.ParallelGatewayElement,
		FlowScopeId: "shipment-process",
		Incoming: []string{ "to-fork" },
		Outgoing: []*model.SequenceFlow{
			{ Id: "to-pick", TargetId: "pick" },
			{ Id: "to-pack", TargetId: "pack" },
		},
	}).AddElement(&model.ExecutableFlowElement{
		Id: "pick",
		ElementType: record.ManualTaskElement,
		FlowScopeId: "shipment-process",
		Incoming: []string{ "to-pick" },
		Outgoing: []*model.SequenceFlow{ { Id: "pick-join", TargetId: "join" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "pack",
		ElementType: record.ManualTaskElement,
		FlowScopeId: "shipment-process",
		Incoming: []string{ "to-pack" },
		Outgoing: []*model.SequenceFlow{ { Id: "pack-join", TargetId: "join" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "join",
		ElementType: record.ParallelGatewayElement,
		FlowScopeId: "shipment-process",
		Incoming: []string{ "pick-join", "pack-join" },
		Outgoing: []*model.SequenceFlow{ { Id: "to-done", TargetId: "done" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "done",
		ElementType: record.EndEventElement,
		FlowScopeId: "shipment-process",
		Incoming: []string{ "to-done" },
	})

	return process
}

func paymentProcess() *model.ExecutableProcess {
	process := model.NewExecutableProcess("payment-process", 0)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "payment-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "payment-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-await-payment", TargetId: "await-payment" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "await-payment",
		ElementType: record.ReceiveTaskElement,
		FlowScopeId: "payment-process",
		SubscriptionName: "payment-received",
		Incoming: []string{ "to-await-payment" },
		Outgoing: []*model.SequenceFlow{ { Id: "to-await-confirmation", TargetId: "await-confirmation" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "await-confirmation",
		ElementType: record.ReceiveTaskElement,
		FlowScopeId: "payment-process",
		SubscriptionName: "payment-confirmed",
		Incoming: []string{ "to-await-confirmation" },
		Outgoing: []*model.SequenceFlow{ { Id: "to-done", TargetId: "done" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "done",
		ElementType: record.EndEventElement,
		FlowScopeId: "payment-process",
		Incoming: []string{ "to-done" },
	})

	return process
}

func reviewProcess() *model.ExecutableProcess {
	process := model.NewExecutableProcess("review-process", 0)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "review-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "review-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-decision", TargetId: "decision" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "decision",
		ElementType: record.EventBasedGatewayElement,
		FlowScopeId: "review-process",
		Incoming: []string{ "to-decision" },
		Outgoing: []*model.SequenceFlow{
			{ Id: "to-granted", TargetId: "granted" },
			{ Id: "to-denied", TargetId: "denied" },
		},
	}).AddElement(&model.ExecutableFlowElement{
		Id: "granted",
		ElementType: record.IntermediateCatchEventElement,
		FlowScopeId: "review-process",
		SubscriptionName: "review-granted",
		Incoming: []string{ "to-granted" },
		Outgoing: []*model.SequenceFlow{ { Id: "granted-done", TargetId: "end-granted" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "denied",
		ElementType: record.IntermediateCatchEventElement,
		FlowScopeId: "review-process",
		SubscriptionName: "review-denied",
		Incoming: []string{ "to-denied" },
		Outgoing: []*model.SequenceFlow{ { Id: "denied-done", TargetId: "end-denied" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "end-granted",
		ElementType: record.EndEventElement,
		FlowScopeId: "review-process",
		Incoming: []string{ "granted-done" },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "end-denied",
		ElementType: record.EndEventElement,
		FlowScopeId: "review-process",
		Incoming: []string{ "denied-done" },
	})

	return process
}

func fulfillmentProcess(jobType string) *model.ExecutableProcess {
	process := model.NewExecutableProcess("fulfillment-process", 0)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "fulfillment-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "fulfillment-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-fulfill", TargetId: "fulfill" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "fulfill",
		ElementType: record.ServiceTaskElement,
		FlowScopeId: "fulfillment-process",
		JobType: jobType,
		Incoming: []string{ "to-fulfill" },
		Outgoing: []*model.SequenceFlow{ { Id: "to-done", TargetId: "done" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "cancel-watch",
		ElementType: record.BoundaryEventElement,
		FlowScopeId: "fulfillment-process",
		AttachedToId: "fulfill",
		Interrupting: true,
		SubscriptionName: "order-cancelled",
		Outgoing: []*model.SequenceFlow{ { Id: "to-cancelled", TargetId: "cancelled" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "done",
		ElementType: record.EndEventElement,
		FlowScopeId: "fulfillment-process",
		Incoming: []string{ "to-done" },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "cancelled",
		ElementType: record.EndEventElement,
		FlowScopeId: "fulfillment-process",
		Incoming: []string{ "to-cancelled" },
	})

	return process
}

func batchProcess() *model.ExecutableProcess {
	process := model.NewExecutableProcess("batch-process", 0)

	process.AddElement(&model.ExecutableFlowElement{
		Id: "batch-process",
		ElementType: record.ProcessElement,
		ChildStartId: "start",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "start",
		ElementType: record.StartEventElement,
		FlowScopeId: "batch-process",
		Outgoing: []*model.SequenceFlow{ { Id: "to-each-item", TargetId: "each-item" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "each-item",
		ElementType: record.MultiInstanceBodyElement,
		FlowScopeId: "batch-process",
		InputCollection: "items",
		InnerElementId: "handle-item",
		Incoming: []string{ "to-each-item" },
		Outgoing: []*model.SequenceFlow{ { Id: "to-done", TargetId: "done" } },
	}).AddElement(&model.ExecutableFlowElement{
		Id: "handle-item",
		ElementType: record.ManualTaskElement,
		FlowScopeId: "each-item",
	}).AddElement(&model.ExecutableFlowElement{
		Id: "done",
		ElementType: record.EndEventElement,
		FlowScopeId: "batch-process",
		Incoming: []string{ "to-done" },
	})

	return process
}
