package bpmn

import "bytes"
import "encoding/json"

import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/model"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"


//=========================================== Bpmn Behaviors


var Log = clog.NewCustomLog(NAME)

/*
	shared behaviors bundle, constructed once per engine instantiation and
	handed to every processor through the registry
*/

type Behaviors struct {
	State *state.State

	// deployed executable processes by process id, populated on deployment apply
	Processes map[string]*model.ExecutableProcess

	// same processes keyed by process definition key for apply path resolution
	ProcessesByKey map[int64]*model.ExecutableProcess
}

func NewBehaviors(engineState *state.State) *Behaviors {
	return &Behaviors{
		State: engineState,
		Processes: make(map[string]*model.ExecutableProcess),
		ProcessesByKey: make(map[int64]*model.ExecutableProcess),
	}
}

/*
	the same behaviors bundle over a different state handle, sharing the
	deployed process caches. used to bind processors to the write transaction
	an entry is applied in
*/

func (behaviors *Behaviors) WithState(engineState *state.State) *Behaviors {
	return &Behaviors{
		State: engineState,
		Processes: behaviors.Processes,
		ProcessesByKey: behaviors.ProcessesByKey,
	}
}


//=========================================== transition emission


/*
	emit a lifecycle transition for an existing element instance
*/

func (behaviors *Behaviors) EmitTransition(ctx *ElementContext, intent record.Intent) error {
	value := &record.ProcessInstanceRecordValue{
		ElementId: ctx.Instance.ElementId,
		ElementType: ctx.Instance.ElementType,
		ProcessDefinitionKey: ctx.Instance.ProcessDefinitionKey,
		ProcessInstanceKey: ctx.Instance.ProcessInstanceKey,
		FlowScopeKey: ctx.Instance.FlowScopeKey,
	}

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, intent, ctx.Instance.Key, value)
	if recErr != nil { return recErr }

	ctx.Emit(rec)
	return nil
}

/*
	emit a lifecycle transition for an element instance other than the context
	instance, used by containers driving their children
*/

func (behaviors *Behaviors) EmitTransitionFor(ctx *ElementContext, instance *state.ElementInstance, intent record.Intent) error {
	value := &record.ProcessInstanceRecordValue{
		ElementId: instance.ElementId,
		ElementType: instance.ElementType,
		ProcessDefinitionKey: instance.ProcessDefinitionKey,
		ProcessInstanceKey: instance.ProcessInstanceKey,
		FlowScopeKey: instance.FlowScopeKey,
	}

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, intent, instance.Key, value)
	if recErr != nil { return recErr }

	ctx.Emit(rec)
	return nil
}

/*
	emit an activation for another element of the process
	--> the record carries no key, a fresh element instance key is assigned
		deterministically when the record is applied
*/

func (behaviors *Behaviors) EmitActivation(ctx *ElementContext, element *model.ExecutableFlowElement, flowScopeKey int64) error {
	processInstanceKey := ctx.Instance.ProcessInstanceKey

	value := &record.ProcessInstanceRecordValue{
		ElementId: element.Id,
		ElementType: element.ElementType,
		ProcessDefinitionKey: ctx.Instance.ProcessDefinitionKey,
		ProcessInstanceKey: processInstanceKey,
		FlowScopeKey: flowScopeKey,
	}

	rec, recErr := record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, record.ElementActivating, 0, value)
	if recErr != nil { return recErr }

	ctx.Emit(rec)
	return nil
}

/*
	Take Sequence Flow
		route a token over a sequence flow to its target
			1.) joining parallel gateways count token arrivals against their join
				threshold and only activate once every incoming flow delivered a
				token, the count resets on firing
			2.) all other targets activate immediately in the scope of the element
				that took the flow
*/

func (behaviors *Behaviors) TakeSequenceFlow(ctx *ElementContext, flow *model.SequenceFlow) error {
	target, targetErr := ctx.Process.GetElement(flow.TargetId)
	if targetErr != nil { return targetErr }

	if target.ElementType == record.ParallelGatewayElement && target.JoinThreshold() > 1 {
		arrived, incErr := behaviors.State.Gateways.IncrementToken(ctx.Instance.FlowScopeKey, target.Id)
		if incErr != nil { return incErr }

		if arrived < target.JoinThreshold() { return nil }

		resetErr := behaviors.State.Gateways.ResetToken(ctx.Instance.FlowScopeKey, target.Id)
		if resetErr != nil { return resetErr }
	}

	return behaviors.EmitActivation(ctx, target, ctx.Instance.FlowScopeKey)
}

/*
	take all outgoing flows of the context element
*/

func (behaviors *Behaviors) TakeOutgoingFlows(ctx *ElementContext) error {
	for _, flow := range ctx.Element.Outgoing {
		takeErr := behaviors.TakeSequenceFlow(ctx, flow)
		if takeErr != nil { return takeErr }
	}

	return nil
}


//=========================================== variable behaviors


/*
	Apply Input Variables
		initial or correlated payloads travel as temporary variables on the
		instance scope, promote them to local variables on activation
*/

func (behaviors *Behaviors) ApplyInputVariables(ctx *ElementContext) error {
	payload, getErr := behaviors.State.Variables.GetTemporaryVariables(ctx.Instance.Key)
	if getErr != nil { return getErr }
	if payload == nil { return nil }

	var document map[string]json.RawMessage
	decErr := json.Unmarshal(payload, &document)
	if decErr != nil {
		return NewIncidentError(IncidentExtractValueError, "expected variable document to be a json object but decoding failed")
	}

	for name, value := range document {
		varKey, keyErr := behaviors.State.KeyGenerator.NextKey()
		if keyErr != nil { return keyErr }

		setErr := behaviors.State.Variables.SetVariableLocal(varKey, ctx.Instance.Key, ctx.Instance.ProcessDefinitionKey, name, value)
		if setErr != nil { return setErr }
	}

	return behaviors.State.Variables.RemoveTemporaryVariables(ctx.Instance.Key)
}

/*
	evaluate a sequence flow condition against the effective variables of the
	element's flow scope, nearest scope wins per the shadowing rules
*/

func (behaviors *Behaviors) EvaluateCondition(ctx *ElementContext, condition *model.Condition) (bool, error) {
	value, getErr := behaviors.State.Variables.GetVariable(ctx.Instance.FlowScopeKey, condition.Variable)
	if getErr != nil { return false, getErr }

	if value == nil { return false, nil }

	return jsonEqual(value, condition.Equals), nil
}


//=========================================== event subscriptions


/*
	open a subscription waiting for an external event to resolve on the scope
*/

func (behaviors *Behaviors) OpenSubscription(scopeKey int64, subscriptionName string, targetElementId string, interrupting bool) error {
	return behaviors.State.Subscriptions.PutSubscription(&state.EventSubscription{
		ScopeKey: scopeKey,
		SubscriptionName: subscriptionName,
		TargetElementId: targetElementId,
		Interrupting: interrupting,
	})
}

/*
	open subscriptions for every event sub process declared directly inside the
	container element, each keyed by the container instance scope
*/

func (behaviors *Behaviors) OpenEventSubProcessSubscriptions(ctx *ElementContext) error {
	for _, element := range ctx.Process.Elements {
		if element.ElementType != record.EventSubProcessElement { continue }
		if element.FlowScopeId != ctx.Element.Id { continue }
		if element.SubscriptionName == "" { continue }

		openErr := behaviors.OpenSubscription(ctx.Instance.Key, element.SubscriptionName, element.Id, element.Interrupting)
		if openErr != nil { return openErr }
	}

	return nil
}

/*
	open subscriptions for every boundary event attached to the element
*/

func (behaviors *Behaviors) OpenBoundaryEventSubscriptions(ctx *ElementContext) error {
	for _, element := range ctx.Process.Elements {
		if element.ElementType != record.BoundaryEventElement { continue }
		if element.AttachedToId != ctx.Element.Id { continue }

		openErr := behaviors.OpenSubscription(ctx.Instance.Key, element.SubscriptionName, element.Id, element.Interrupting)
		if openErr != nil { return openErr }
	}

	return nil
}


//=========================================== incidents


/*
	Raise Incident
		transform a processor failure into an incident record scoped to the
		offending element instance. only that instance stalls, the partition
		keeps applying
*/

func (behaviors *Behaviors) RaiseIncident(ctx *ElementContext, incident *IncidentError) (*record.Record, error) {
	value := &record.IncidentRecordValue{
		ErrorType: incident.ErrorType,
		ErrorMessage: incident.ErrorMessage,
		ElementInstanceKey: ctx.Instance.Key,
		ElementId: ctx.Instance.ElementId,
		ProcessInstanceKey: ctx.Instance.ProcessInstanceKey,
	}

	return record.NewRecord[*record.IncidentRecordValue](record.IncidentValue, record.IncidentCreated, ctx.Instance.Key, value)
}


func jsonEqual(a json.RawMessage, b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b))
}
