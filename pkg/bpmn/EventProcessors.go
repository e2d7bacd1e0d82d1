package bpmn

import "github.com/sirgallo/flow/pkg/record"


//=========================================== Event Processors


/*
	Start Event
		activates the path of its container, pass through
*/

type StartEventProcessor struct {
	behaviors *Behaviors
}

func (processor *StartEventProcessor) OnActivate(ctx *ElementContext) error {
	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *StartEventProcessor) OnComplete(ctx *ElementContext) error {
	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *StartEventProcessor) OnTerminate(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	End Event
		consumes the token. with no outgoing flows the containing scope is
		notified on completion by the apply path
*/

type EndEventProcessor struct {
	behaviors *Behaviors
}

func (processor *EndEventProcessor) OnActivate(ctx *ElementContext) error {
	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *EndEventProcessor) OnComplete(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
}

func (processor *EndEventProcessor) OnTerminate(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	Intermediate Catch Event
		waits on a named subscription until the event occurs
*/

type IntermediateCatchEventProcessor struct {
	behaviors *Behaviors
}

func (processor *IntermediateCatchEventProcessor) OnActivate(ctx *ElementContext) error {
	if ctx.Element.SubscriptionName == "" {
		return NewIncidentError(IncidentConfigurationError, "expected a subscription name to be configured for the intermediate catch event but none found")
	}

	openErr := processor.behaviors.OpenSubscription(ctx.Instance.Key, ctx.Element.SubscriptionName, ctx.Element.Id, false)
	if openErr != nil { return openErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementActivated)
}

func (processor *IntermediateCatchEventProcessor) OnComplete(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *IntermediateCatchEventProcessor) OnTerminate(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	Intermediate Throw Event
		pass through, the throw side of event semantics is out of engine scope
*/

type IntermediateThrowEventProcessor struct {
	behaviors *Behaviors
}

func (processor *IntermediateThrowEventProcessor) OnActivate(ctx *ElementContext) error {
	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *IntermediateThrowEventProcessor) OnComplete(ctx *ElementContext) error {
	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *IntermediateThrowEventProcessor) OnTerminate(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	Boundary Event
		activated when its subscription resolves on the attached activity, the
		interrupting variant additionally terminates the activity it is attached
		to. the subscription lifecycle itself is owned by the attached activity
*/

type BoundaryEventProcessor struct {
	behaviors *Behaviors
}

func (processor *BoundaryEventProcessor) OnActivate(ctx *ElementContext) error {
	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *BoundaryEventProcessor) OnComplete(ctx *ElementContext) error {
	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *BoundaryEventProcessor) OnTerminate(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}
