package bpmn

import "github.com/sirgallo/flow/pkg/record"


//=========================================== Gateway Processors


/*
	Exclusive Gateway
		routes the token over the first outgoing flow whose condition matches,
		evaluated in declaration order. falls back to the default flow, raises an
		incident when no condition matches and no default flow exists
*/

type ExclusiveGatewayProcessor struct {
	behaviors *Behaviors
}

func (processor *ExclusiveGatewayProcessor) OnActivate(ctx *ElementContext) error {
	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *ExclusiveGatewayProcessor) OnComplete(ctx *ElementContext) error {
	for _, flow := range ctx.Element.Outgoing {
		if flow.Id == ctx.Element.DefaultFlowId { continue }
		if flow.Condition == nil { continue }

		matched, evalErr := processor.behaviors.EvaluateCondition(ctx, flow.Condition)
		if evalErr != nil { return evalErr }

		if matched {
			completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
			if completeErr != nil { return completeErr }

			return processor.behaviors.TakeSequenceFlow(ctx, flow)
		}
	}

	if ctx.Element.DefaultFlowId != "" {
		for _, flow := range ctx.Element.Outgoing {
			if flow.Id != ctx.Element.DefaultFlowId { continue }

			completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
			if completeErr != nil { return completeErr }

			return processor.behaviors.TakeSequenceFlow(ctx, flow)
		}
	}

	return NewIncidentError(IncidentConditionError, "expected at least one condition to evaluate to true, or to have a default flow, but none found")
}

func (processor *ExclusiveGatewayProcessor) OnTerminate(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	Parallel Gateway
		the join side is handled before activation, token arrivals are counted
		per incoming flow and the gateway only activates once the threshold is
		reached. completion forks by taking every outgoing flow
*/

type ParallelGatewayProcessor struct {
	behaviors *Behaviors
}

func (processor *ParallelGatewayProcessor) OnActivate(ctx *ElementContext) error {
	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *ParallelGatewayProcessor) OnComplete(ctx *ElementContext) error {
	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *ParallelGatewayProcessor) OnTerminate(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}

/*
	Event Based Gateway
		registers a subscription per outgoing event target. the first event to
		resolve cancels the sibling subscriptions and completes the gateway with
		the winning path
*/

type EventBasedGatewayProcessor struct {
	behaviors *Behaviors
}

func (processor *EventBasedGatewayProcessor) OnActivate(ctx *ElementContext) error {
	for _, flow := range ctx.Element.Outgoing {
		target, targetErr := ctx.Process.GetElement(flow.TargetId)
		if targetErr != nil { return targetErr }

		if target.SubscriptionName == "" {
			return NewIncidentError(IncidentConfigurationError, "expected a subscription name on every event target of the event based gateway but none found for '" + target.Id + "'")
		}

		openErr := processor.behaviors.OpenSubscription(ctx.Instance.Key, target.SubscriptionName, target.Id, false)
		if openErr != nil { return openErr }
	}

	return processor.behaviors.EmitTransition(ctx, record.ElementActivated)
}

/*
	the winning target id was stashed as temporary variables when the event
	occurred, the gateway resumes on the winning event's outgoing flows
*/

func (processor *EventBasedGatewayProcessor) OnComplete(ctx *ElementContext) error {
	winner, getErr := processor.behaviors.State.Variables.GetTemporaryVariables(ctx.Instance.Key)
	if getErr != nil { return getErr }

	if winner == nil {
		return NewIncidentError(IncidentExtractValueError, "expected a winning event for the event based gateway but none found")
	}

	removeErr := processor.behaviors.State.Variables.RemoveTemporaryVariables(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	winningTarget, targetErr := ctx.Process.GetElement(string(winner))
	if targetErr != nil { return targetErr }

	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	for _, flow := range winningTarget.Outgoing {
		takeErr := processor.behaviors.TakeSequenceFlow(ctx, flow)
		if takeErr != nil { return takeErr }
	}

	return nil
}

func (processor *EventBasedGatewayProcessor) OnTerminate(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	return processor.behaviors.EmitTransition(ctx, record.ElementTerminated)
}
