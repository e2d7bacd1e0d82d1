package bpmn

import "github.com/sirgallo/flow/pkg/record"


//=========================================== Task Processors


/*
	Service Task
		a job worker style task. activation validates the job type configuration
		and opens boundary event subscriptions, then the instance waits until an
		external worker completes it
*/

type ServiceTaskProcessor struct {
	behaviors *Behaviors
}

func (processor *ServiceTaskProcessor) OnActivate(ctx *ElementContext) error {
	if ctx.Element.JobType == "" {
		return NewIncidentError(IncidentConfigurationError, "expected a job type to be configured for the service task but none found")
	}

	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	boundaryErr := processor.behaviors.OpenBoundaryEventSubscriptions(ctx)
	if boundaryErr != nil { return boundaryErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementActivated)
}

func (processor *ServiceTaskProcessor) OnComplete(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *ServiceTaskProcessor) OnTerminate(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	Receive Task
		waits on a named event subscription, completed when the event occurs
*/

type ReceiveTaskProcessor struct {
	behaviors *Behaviors
}

func (processor *ReceiveTaskProcessor) OnActivate(ctx *ElementContext) error {
	if ctx.Element.SubscriptionName == "" {
		return NewIncidentError(IncidentConfigurationError, "expected a subscription name to be configured for the receive task but none found")
	}

	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	openErr := processor.behaviors.OpenSubscription(ctx.Instance.Key, ctx.Element.SubscriptionName, ctx.Element.Id, false)
	if openErr != nil { return openErr }

	boundaryErr := processor.behaviors.OpenBoundaryEventSubscriptions(ctx)
	if boundaryErr != nil { return boundaryErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementActivated)
}

func (processor *ReceiveTaskProcessor) OnComplete(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *ReceiveTaskProcessor) OnTerminate(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	Manual Task
		pure pass through, completes itself right after activation
*/

type ManualTaskProcessor struct {
	behaviors *Behaviors
}

func (processor *ManualTaskProcessor) OnActivate(ctx *ElementContext) error {
	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *ManualTaskProcessor) OnComplete(ctx *ElementContext) error {
	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *ManualTaskProcessor) OnTerminate(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}
