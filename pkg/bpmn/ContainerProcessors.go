package bpmn

import "encoding/json"
import "fmt"

import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"


//=========================================== Container Processors


/*
	Process
		root container of a process instance. activation starts the path at the
		none start event, completion waits for every active child to finish
*/

type ProcessProcessor struct {
	behaviors *Behaviors
}

func (processor *ProcessProcessor) OnActivate(ctx *ElementContext) error {
	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	subErr := processor.behaviors.OpenEventSubProcessSubscriptions(ctx)
	if subErr != nil { return subErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return activateStartChild(processor.behaviors, ctx)
}

func (processor *ProcessProcessor) OnComplete(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
}

func (processor *ProcessProcessor) OnTerminate(ctx *ElementContext) error {
	return terminateOrFinish(processor.behaviors, ctx)
}

func (processor *ProcessProcessor) OnChildCompleted(ctx *ElementContext, child *state.ElementInstance) error {
	if ctx.Instance.ActiveChildren > 0 { return nil }
	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *ProcessProcessor) OnChildTerminated(ctx *ElementContext, child *state.ElementInstance) error {
	return finishTerminationWhenDrained(processor.behaviors, ctx)
}

/*
	Sub Process
		embedded container, children run in the sub process scope and shadow
		parent variables. completion continues on the outgoing flows
*/

type SubProcessProcessor struct {
	behaviors *Behaviors
}

func (processor *SubProcessProcessor) OnActivate(ctx *ElementContext) error {
	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	subErr := processor.behaviors.OpenBoundaryEventSubscriptions(ctx)
	if subErr != nil { return subErr }

	espErr := processor.behaviors.OpenEventSubProcessSubscriptions(ctx)
	if espErr != nil { return espErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return activateStartChild(processor.behaviors, ctx)
}

func (processor *SubProcessProcessor) OnComplete(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *SubProcessProcessor) OnTerminate(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	return terminateOrFinish(processor.behaviors, ctx)
}

func (processor *SubProcessProcessor) OnChildCompleted(ctx *ElementContext, child *state.ElementInstance) error {
	if ctx.Instance.ActiveChildren > 0 { return nil }
	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *SubProcessProcessor) OnChildTerminated(ctx *ElementContext, child *state.ElementInstance) error {
	return finishTerminationWhenDrained(processor.behaviors, ctx)
}

/*
	Event Sub Process
		activated by an event occurring in its containing scope instead of by a
		sequence flow, otherwise behaves like a sub process without outgoing flows
*/

type EventSubProcessProcessor struct {
	behaviors *Behaviors
}

func (processor *EventSubProcessProcessor) OnActivate(ctx *ElementContext) error {
	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	return activateStartChild(processor.behaviors, ctx)
}

func (processor *EventSubProcessProcessor) OnComplete(ctx *ElementContext) error {
	return processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
}

func (processor *EventSubProcessProcessor) OnTerminate(ctx *ElementContext) error {
	return terminateOrFinish(processor.behaviors, ctx)
}

func (processor *EventSubProcessProcessor) OnChildCompleted(ctx *ElementContext, child *state.ElementInstance) error {
	if ctx.Instance.ActiveChildren > 0 { return nil }
	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *EventSubProcessProcessor) OnChildTerminated(ctx *ElementContext, child *state.ElementInstance) error {
	return finishTerminationWhenDrained(processor.behaviors, ctx)
}

/*
	Multi Instance Body
		sequential iteration over an input collection. the collection is re-read
		from the body's flow scope on every iteration boundary so concurrent
		updates to it are observed, the iteration element sees the current item
		as a body local 'item' variable
*/

type MultiInstanceBodyProcessor struct {
	behaviors *Behaviors
}

func (processor *MultiInstanceBodyProcessor) OnActivate(ctx *ElementContext) error {
	items, itemsErr := processor.readInputCollection(ctx)
	if itemsErr != nil { return itemsErr }

	ctx.Instance.TotalIterations = len(items)
	ctx.Instance.CompletedIterations = 0

	updErr := processor.behaviors.State.ElementInstances.UpdateInstance(ctx.Instance)
	if updErr != nil { return updErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	if len(items) == 0 { return processor.behaviors.EmitTransition(ctx, record.ElementCompleting) }
	return processor.activateIteration(ctx, items[0])
}

func (processor *MultiInstanceBodyProcessor) OnComplete(ctx *ElementContext) error {
	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *MultiInstanceBodyProcessor) OnTerminate(ctx *ElementContext) error {
	return terminateOrFinish(processor.behaviors, ctx)
}

func (processor *MultiInstanceBodyProcessor) OnChildCompleted(ctx *ElementContext, child *state.ElementInstance) error {
	ctx.Instance.CompletedIterations++

	updErr := processor.behaviors.State.ElementInstances.UpdateInstance(ctx.Instance)
	if updErr != nil { return updErr }

	items, itemsErr := processor.readInputCollection(ctx)
	if itemsErr != nil { return itemsErr }

	if ctx.Instance.CompletedIterations >= len(items) {
		return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
	}

	return processor.activateIteration(ctx, items[ctx.Instance.CompletedIterations])
}

func (processor *MultiInstanceBodyProcessor) OnChildTerminated(ctx *ElementContext, child *state.ElementInstance) error {
	return finishTerminationWhenDrained(processor.behaviors, ctx)
}

func (processor *MultiInstanceBodyProcessor) readInputCollection(ctx *ElementContext) ([]json.RawMessage, error) {
	if ctx.Element.InputCollection == "" {
		return nil, NewIncidentError(IncidentConfigurationError, "expected an input collection to be configured for the multi instance body but none found")
	}

	raw, getErr := processor.behaviors.State.Variables.GetVariable(ctx.Instance.FlowScopeKey, ctx.Element.InputCollection)
	if getErr != nil { return nil, getErr }
	if raw == nil {
		return nil, NewIncidentError(IncidentExtractValueError, fmt.Sprintf("expected the input collection variable '%s' to exist in scope but not found", ctx.Element.InputCollection))
	}

	var items []json.RawMessage
	decErr := json.Unmarshal(raw, &items)
	if decErr != nil {
		return nil, NewIncidentError(IncidentExtractValueError, fmt.Sprintf("expected the input collection variable '%s' to be a json array but it is not", ctx.Element.InputCollection))
	}

	return items, nil
}

func (processor *MultiInstanceBodyProcessor) activateIteration(ctx *ElementContext, item json.RawMessage) error {
	varKey, keyErr := processor.behaviors.State.KeyGenerator.NextKey()
	if keyErr != nil { return keyErr }

	setErr := processor.behaviors.State.Variables.SetVariableLocal(varKey, ctx.Instance.Key, ctx.Instance.ProcessDefinitionKey, "item", item)
	if setErr != nil { return setErr }

	inner, innerErr := ctx.Process.GetElement(ctx.Element.InnerElementId)
	if innerErr != nil { return innerErr }

	return processor.behaviors.EmitActivation(ctx, inner, ctx.Instance.Key)
}

/*
	Call Activity
		creates a child process instance of the called process. the child root
		scopes to the call activity instance, completion of the child completes
		the call activity
*/

type CallActivityProcessor struct {
	behaviors *Behaviors
}

func (processor *CallActivityProcessor) OnActivate(ctx *ElementContext) error {
	inputErr := processor.behaviors.ApplyInputVariables(ctx)
	if inputErr != nil { return inputErr }

	called, ok := processor.behaviors.Processes[ctx.Element.CalledProcessId]
	if ! ok {
		return NewIncidentError(IncidentConfigurationError, fmt.Sprintf("expected process with id '%s' to be deployed but not found", ctx.Element.CalledProcessId))
	}

	subErr := processor.behaviors.OpenBoundaryEventSubscriptions(ctx)
	if subErr != nil { return subErr }

	activateErr := processor.behaviors.EmitTransition(ctx, record.ElementActivated)
	if activateErr != nil { return activateErr }

	root, rootErr := called.GetElement(called.ProcessId)
	if rootErr != nil { return rootErr }

	// the fresh root scopes to the call activity instance, the apply path makes
	// it the root of a new process instance with its own keys
	value := &record.ProcessInstanceRecordValue{
		ElementId: root.Id,
		ElementType: root.ElementType,
		ProcessDefinitionKey: called.ProcessDefinitionKey,
		FlowScopeKey: ctx.Instance.Key,
	}

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, record.ElementActivating, 0, value)
	if recErr != nil { return recErr }

	ctx.Emit(rec)
	return nil
}

func (processor *CallActivityProcessor) OnComplete(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	completeErr := processor.behaviors.EmitTransition(ctx, record.ElementCompleted)
	if completeErr != nil { return completeErr }

	return processor.behaviors.TakeOutgoingFlows(ctx)
}

func (processor *CallActivityProcessor) OnTerminate(ctx *ElementContext) error {
	removeErr := processor.behaviors.State.Subscriptions.RemoveSubscriptionsForScope(ctx.Instance.Key)
	if removeErr != nil { return removeErr }

	return terminateOrFinish(processor.behaviors, ctx)
}

func (processor *CallActivityProcessor) OnChildCompleted(ctx *ElementContext, child *state.ElementInstance) error {
	if ctx.Instance.ActiveChildren > 0 { return nil }
	return processor.behaviors.EmitTransition(ctx, record.ElementCompleting)
}

func (processor *CallActivityProcessor) OnChildTerminated(ctx *ElementContext, child *state.ElementInstance) error {
	return finishTerminationWhenDrained(processor.behaviors, ctx)
}


//=========================================== shared container helpers


/*
	activate the configured start element in the scope of the container instance
*/

func activateStartChild(behaviors *Behaviors, ctx *ElementContext) error {
	start, startErr := ctx.Process.GetElement(ctx.Element.ChildStartId)
	if startErr != nil { return startErr }

	return behaviors.EmitActivation(ctx, start, ctx.Instance.Key)
}

/*
	Terminate Or Finish
		propagate termination to every active child, terminating directly when
		the container has none. children already past completing are left to
		finish, their completion is swallowed while the container terminates
*/

func terminateOrFinish(behaviors *Behaviors, ctx *ElementContext) error {
	children, childrenErr := behaviors.State.ElementInstances.GetChildren(ctx.Instance.Key)
	if childrenErr != nil { return childrenErr }

	if len(children) == 0 { return behaviors.EmitTransition(ctx, record.ElementTerminated) }

	for _, child := range children {
		if child.Intent == record.ElementTerminating { continue }

		emitErr := behaviors.EmitTransitionFor(ctx, child, record.ElementTerminating)
		if emitErr != nil { return emitErr }
	}

	return nil
}

/*
	a terminating container finishes once its last child is gone
*/

func finishTerminationWhenDrained(behaviors *Behaviors, ctx *ElementContext) error {
	if ctx.Instance.Intent != record.ElementTerminating { return nil }
	if ctx.Instance.ActiveChildren > 0 { return nil }

	return behaviors.EmitTransition(ctx, record.ElementTerminated)
}
