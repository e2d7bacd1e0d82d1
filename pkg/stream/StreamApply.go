package stream

import "encoding/json"
import "errors"
import "fmt"

import "github.com/sirgallo/flow/pkg/bpmn"
import "github.com/sirgallo/flow/pkg/model"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"
import "github.com/sirgallo/flow/pkg/utils"


//=========================================== Record Apply


func (stream *Stream) applyRecord(rec *record.Record) ([]*record.Record, error) {
	switch rec.ValueType {
		case record.ProcessInstanceValue:
			return stream.applyProcessInstance(rec)
		case record.VariableValue:
			return nil, stream.applyVariable(rec)
		case record.IncidentValue:
			return stream.applyIncident(rec)
		case record.DeploymentValue:
			return nil, stream.applyDeployment(rec)
		case record.MessageValue:
			return stream.applyMessage(rec)
		default:
			Log.Warn("skipping record with unknown value type:", rec.ValueType)
			return nil, nil
	}
}


//=========================================== process instance lifecycle


/*
	Apply Process Instance
		dispatch an element lifecycle transition to its processor. transitions on
		instances that no longer exist are stale, e.g. a completion racing a
		termination, and are skipped
*/

func (stream *Stream) applyProcessInstance(rec *record.Record) ([]*record.Record, error) {
	value, decErr := record.DecodeValue[record.ProcessInstanceRecordValue](rec)
	if decErr != nil { return nil, decErr }

	if rec.Intent == record.ElementActivating { return stream.applyActivating(rec, value) }

	instance, getErr := stream.state.ElementInstances.GetInstance(rec.Key)
	if getErr != nil { return nil, getErr }
	if instance == nil {
		Log.Debug("element instance gone, skipping stale transition:", rec.Intent, rec.Key)
		return nil, nil
	}

	ctx, ctxErr := stream.resolveContext(instance)
	if ctxErr != nil { return nil, ctxErr }

	switch rec.Intent {
		case record.ElementActivated:
			return nil, stream.state.ElementInstances.SetIntent(rec.Key, record.ElementActivated)
		case record.ElementCompleting:
			if instance.Intent == record.ElementTerminating { return nil, nil }

			setErr := stream.state.ElementInstances.SetIntent(rec.Key, record.ElementCompleting)
			if setErr != nil { return nil, setErr }

			instance.Intent = record.ElementCompleting

			processor, procErr := stream.processors.GetProcessor(instance.ElementType)
			if procErr != nil { return nil, procErr }

			return stream.dispatch(ctx, processor.OnComplete)
		case record.ElementTerminating:
			setErr := stream.state.ElementInstances.SetIntent(rec.Key, record.ElementTerminating)
			if setErr != nil { return nil, setErr }

			instance.Intent = record.ElementTerminating

			processor, procErr := stream.processors.GetProcessor(instance.ElementType)
			if procErr != nil { return nil, procErr }

			return stream.dispatch(ctx, processor.OnTerminate)
		case record.ElementCompleted:
			return stream.applyCompleted(ctx)
		case record.ElementTerminated:
			return stream.applyTerminated(ctx)
		default:
			Log.Warn("skipping process instance record with unknown intent:", rec.Intent)
			return nil, nil
	}
}

/*
	Apply Activating
		create the runtime element instance before dispatching activation
			1.) fresh keys are assigned here, on the apply path, so every replica
				assigns identical keys
			2.) a PROCESS element roots a new process instance, its own key
				becomes the process instance key
			3.) an initial payload travels on the record and is staged as
				temporary variables for the processor to promote
*/

func (stream *Stream) applyActivating(rec *record.Record, value *record.ProcessInstanceRecordValue) ([]*record.Record, error) {
	key := rec.Key
	if key == 0 {
		nextKey, keyErr := stream.state.KeyGenerator.NextKey()
		if keyErr != nil { return nil, keyErr }

		key = nextKey
	}

	if value.ProcessDefinitionKey == 0 {
		process, ok := stream.behaviors.Processes[value.ElementId]
		if ! ok {
			Log.Error("no deployed process for element, dropping activation:", value.ElementId)
			return nil, nil
		}

		value.ProcessDefinitionKey = process.ProcessDefinitionKey
	}

	if value.ElementType == record.ProcessElement {
		value.ProcessInstanceKey = key
		if value.FlowScopeKey == 0 { value.FlowScopeKey = state.NoParent }
	}

	// a retried activation, e.g. after an incident resolution, reuses the
	// existing instance instead of re registering it under its parent
	existing, existingErr := stream.state.ElementInstances.GetInstance(key)
	if existingErr != nil { return nil, existingErr }

	if existing == nil {
		newErr := stream.state.ElementInstances.NewInstance(value.FlowScopeKey, key, value, record.ElementActivating)
		if newErr != nil { return nil, newErr }
	}

	if len(value.Variables) > 0 {
		stageErr := stream.state.Variables.SetTemporaryVariables(key, value.Variables)
		if stageErr != nil { return nil, stageErr }
	}

	instance, getErr := stream.state.ElementInstances.GetInstance(key)
	if getErr != nil { return nil, getErr }

	ctx, ctxErr := stream.resolveContext(instance)
	if ctxErr != nil { return nil, ctxErr }

	processor, procErr := stream.processors.GetProcessor(instance.ElementType)
	if procErr != nil { return nil, procErr }

	return stream.dispatch(ctx, processor.OnActivate)
}

/*
	Apply Completed
		remove the finished instance and, when the element ends its path, notify
		the containing scope. elements with outgoing flows continue elsewhere,
		their container is not done with them yet
*/

func (stream *Stream) applyCompleted(ctx *bpmn.ElementContext) ([]*record.Record, error) {
	instance := ctx.Instance
	parentKey := instance.FlowScopeKey

	removeErr := stream.state.ElementInstances.RemoveInstance(instance.Key)
	if removeErr != nil { return nil, removeErr }

	if len(ctx.Element.Outgoing) > 0 { return nil, nil }

	if parentKey == state.NoParent {
		Log.Info("process instance completed:", instance.ProcessInstanceKey)
		return nil, nil
	}

	parent, getErr := stream.state.ElementInstances.GetInstance(parentKey)
	if getErr != nil { return nil, getErr }
	if parent == nil { return nil, nil }

	parentCtx, ctxErr := stream.resolveContext(parent)
	if ctxErr != nil { return nil, ctxErr }

	container, containerErr := stream.processors.GetContainerProcessor(parent.ElementType)
	if containerErr != nil { return nil, containerErr }

	childCompleted := func(c *bpmn.ElementContext) error { return container.OnChildCompleted(c, instance) }
	return stream.dispatch(parentCtx, childCompleted)
}

/*
	Apply Terminated
		terminations always propagate to the containing scope so a terminating
		container can finish once its last child is gone
*/

func (stream *Stream) applyTerminated(ctx *bpmn.ElementContext) ([]*record.Record, error) {
	instance := ctx.Instance
	parentKey := instance.FlowScopeKey

	removeErr := stream.state.ElementInstances.RemoveInstance(instance.Key)
	if removeErr != nil { return nil, removeErr }

	if parentKey == state.NoParent {
		Log.Info("process instance terminated:", instance.ProcessInstanceKey)
		return nil, nil
	}

	parent, getErr := stream.state.ElementInstances.GetInstance(parentKey)
	if getErr != nil { return nil, getErr }
	if parent == nil { return nil, nil }

	parentCtx, ctxErr := stream.resolveContext(parent)
	if ctxErr != nil { return nil, ctxErr }

	container, containerErr := stream.processors.GetContainerProcessor(parent.ElementType)
	if containerErr != nil { return nil, containerErr }

	childTerminated := func(c *bpmn.ElementContext) error { return container.OnChildTerminated(c, instance) }
	return stream.dispatch(parentCtx, childTerminated)
}


//=========================================== variables, incidents, deployments


func (stream *Stream) applyVariable(rec *record.Record) error {
	value, decErr := record.DecodeValue[record.VariableRecordValue](rec)
	if decErr != nil { return decErr }

	varKey, keyErr := stream.state.KeyGenerator.NextKey()
	if keyErr != nil { return keyErr }

	return stream.state.Variables.SetVariableLocal(varKey, value.ScopeKey, value.ProcessInstanceKey, value.Name, value.Value)
}

/*
	Apply Incident
		creation stores the incident keyed by the stalled element instance,
		resolution removes it and retries the stalled transition
*/

func (stream *Stream) applyIncident(rec *record.Record) ([]*record.Record, error) {
	switch rec.Intent {
		case record.IncidentCreated:
			value, decErr := record.DecodeValue[record.IncidentRecordValue](rec)
			if decErr != nil { return nil, decErr }

			return nil, stream.state.Incidents.PutIncident(rec.Key, value)
		case record.IncidentResolved:
			incident, getErr := stream.state.Incidents.GetIncident(rec.Key)
			if getErr != nil { return nil, getErr }
			if incident == nil { return nil, nil }

			removeErr := stream.state.Incidents.RemoveIncident(rec.Key)
			if removeErr != nil { return nil, removeErr }

			instance, instErr := stream.state.ElementInstances.GetInstance(incident.ElementInstanceKey)
			if instErr != nil { return nil, instErr }
			if instance == nil { return nil, nil }

			retry, recErr := instanceTransitionRecord(instance, instance.Intent)
			if recErr != nil { return nil, recErr }

			return []*record.Record{ retry }, nil
		default:
			Log.Warn("skipping incident record with unknown intent:", rec.Intent)
			return nil, nil
	}
}

func (stream *Stream) applyDeployment(rec *record.Record) error {
	switch rec.Intent {
		case record.DeploymentCreated:
			value, decErr := record.DecodeValue[record.DeploymentRecordValue](rec)
			if decErr != nil { return decErr }

			deploymentKey := rec.Key
			if deploymentKey == 0 {
				nextKey, keyErr := stream.state.KeyGenerator.NextKey()
				if keyErr != nil { return keyErr }

				deploymentKey = nextKey
			}

			if value.ProcessDefinitionKey == 0 {
				defKey, keyErr := stream.state.KeyGenerator.NextKey()
				if keyErr != nil { return keyErr }

				value.ProcessDefinitionKey = defKey
			}

			process, resErr := utils.DecodeBytesToStruct[model.ExecutableProcess](value.Resource)
			if resErr != nil {
				Log.Error("deployment resource does not decode, dropping deployment:", value.ProcessId)
				return nil
			}

			process.ProcessDefinitionKey = value.ProcessDefinitionKey
			stream.registerProcess(process)

			putErr := stream.state.Deployments.PutDeployment(deploymentKey, value)
			if putErr != nil { return putErr }

			for partition := int32(1); partition <= stream.partitionCount; partition++ {
				if partition == stream.partitionId { continue }

				pendingErr := stream.state.Deployments.AddPendingDeploymentDistribution(deploymentKey, partition)
				if pendingErr != nil { return pendingErr }
			}

			return nil
		case record.DeploymentDistributed:
			return stream.state.Deployments.RemovePendingDeploymentDistribution(rec.Key, rec.PartitionId)
		default:
			Log.Warn("skipping deployment record with unknown intent:", rec.Intent)
			return nil
	}
}


//=========================================== message correlation


/*
	Apply Message
		correlate a published message against the first open subscription for
		its name, in key order. resolution depends on what opened the
		subscription
			1.) a waiting catch event or receive task completes, the payload is
				merged into its containing scope
			2.) an event based gateway records the winning target and completes
			3.) a boundary event activates in the scope of the activity it is
				attached to, the interrupting variant also terminates the activity
			4.) an event sub process activates inside its container, the
				interrupting variant also terminates the container's other children
*/

func (stream *Stream) applyMessage(rec *record.Record) ([]*record.Record, error) {
	value, decErr := record.DecodeValue[record.MessageRecordValue](rec)
	if decErr != nil { return nil, decErr }

	subscription, findErr := stream.state.Subscriptions.FindSubscriptionByName(value.Name)
	if findErr != nil { return nil, findErr }
	if subscription == nil {
		Log.Info("no open subscription for message, dropped:", value.Name)
		return nil, nil
	}

	scopeInstance, getErr := stream.state.ElementInstances.GetInstance(subscription.ScopeKey)
	if getErr != nil { return nil, getErr }
	if scopeInstance == nil {
		return nil, stream.state.Subscriptions.RemoveSubscriptionsForScope(subscription.ScopeKey)
	}

	process, ok := stream.behaviors.ProcessesByKey[scopeInstance.ProcessDefinitionKey]
	if ! ok { return nil, fmt.Errorf("expected to find deployed process with definition key '%d' but not found", scopeInstance.ProcessDefinitionKey) }

	target, targetErr := process.GetElement(subscription.TargetElementId)
	if targetErr != nil { return nil, targetErr }

	switch {
		case target.Id == scopeInstance.ElementId:
			removeErr := stream.state.Subscriptions.RemoveSubscriptionsForScope(subscription.ScopeKey)
			if removeErr != nil { return nil, removeErr }

			mergeErr := stream.mergeMessageVariables(scopeInstance, value.Variables)
			if mergeErr != nil { return nil, mergeErr }

			completing, recErr := instanceTransitionRecord(scopeInstance, record.ElementCompleting)
			if recErr != nil { return nil, recErr }

			return []*record.Record{ completing }, nil
		case scopeInstance.ElementType == record.EventBasedGatewayElement:
			removeErr := stream.state.Subscriptions.RemoveSubscriptionsForScope(subscription.ScopeKey)
			if removeErr != nil { return nil, removeErr }

			stageErr := stream.state.Variables.SetTemporaryVariables(subscription.ScopeKey, []byte(target.Id))
			if stageErr != nil { return nil, stageErr }

			completing, recErr := instanceTransitionRecord(scopeInstance, record.ElementCompleting)
			if recErr != nil { return nil, recErr }

			return []*record.Record{ completing }, nil
		case target.ElementType == record.BoundaryEventElement:
			removeErr := stream.removeResolvedSubscription(subscription)
			if removeErr != nil { return nil, removeErr }

			activation, recErr := elementActivationRecord(scopeInstance, target, scopeInstance.FlowScopeKey, value.Variables)
			if recErr != nil { return nil, recErr }

			followups := []*record.Record{ activation }

			if subscription.Interrupting {
				terminating, termErr := instanceTransitionRecord(scopeInstance, record.ElementTerminating)
				if termErr != nil { return nil, termErr }

				followups = append(followups, terminating)
			}

			return followups, nil
		case target.ElementType == record.EventSubProcessElement:
			removeErr := stream.removeResolvedSubscription(subscription)
			if removeErr != nil { return nil, removeErr }

			activation, recErr := elementActivationRecord(scopeInstance, target, scopeInstance.Key, value.Variables)
			if recErr != nil { return nil, recErr }

			followups := []*record.Record{ activation }

			if subscription.Interrupting {
				children, childrenErr := stream.state.ElementInstances.GetChildren(scopeInstance.Key)
				if childrenErr != nil { return nil, childrenErr }

				for _, child := range children {
					if child.Intent == record.ElementTerminating { continue }

					terminating, termErr := instanceTransitionRecord(child, record.ElementTerminating)
					if termErr != nil { return nil, termErr }

					followups = append(followups, terminating)
				}
			}

			return followups, nil
		default:
			Log.Warn("subscription target cannot resolve the event, dropped:", subscription.TargetElementId)
			return nil, nil
	}
}

func (stream *Stream) removeResolvedSubscription(subscription *state.EventSubscription) error {
	if subscription.Interrupting {
		return stream.state.Subscriptions.RemoveSubscriptionsForScope(subscription.ScopeKey)
	}

	return stream.state.Subscriptions.RemoveSubscription(subscription.ScopeKey, subscription.SubscriptionName)
}

/*
	message payloads merge into the scope containing the waiting element, so
	elements downstream of it observe them
*/

func (stream *Stream) mergeMessageVariables(scopeInstance *state.ElementInstance, payload json.RawMessage) error {
	if len(payload) == 0 { return nil }

	var document map[string]json.RawMessage
	docErr := json.Unmarshal(payload, &document)
	if docErr != nil {
		Log.Warn("message payload is not a json object, dropped:", docErr.Error())
		return nil
	}

	for name, varValue := range document {
		varKey, keyErr := stream.state.KeyGenerator.NextKey()
		if keyErr != nil { return keyErr }

		setErr := stream.state.Variables.SetVariableLocal(varKey, scopeInstance.FlowScopeKey, scopeInstance.ProcessDefinitionKey, name, varValue)
		if setErr != nil { return setErr }
	}

	return nil
}


//=========================================== shared apply helpers


func (stream *Stream) resolveContext(instance *state.ElementInstance) (*bpmn.ElementContext, error) {
	process, ok := stream.behaviors.ProcessesByKey[instance.ProcessDefinitionKey]
	if ! ok { return nil, fmt.Errorf("expected to find deployed process with definition key '%d' but not found", instance.ProcessDefinitionKey) }

	element, elementErr := process.GetElement(instance.ElementId)
	if elementErr != nil { return nil, elementErr }

	return &bpmn.ElementContext{
		Process: process,
		Element: element,
		Instance: instance,
		Behaviors: stream.behaviors,
	}, nil
}

/*
	Dispatch
		run a transition and collect its follow ups. a processor precondition
		failure becomes an incident record for the stalled instance, any other
		error is a storage fault and propagates
*/

func (stream *Stream) dispatch(ctx *bpmn.ElementContext, transition func(ctx *bpmn.ElementContext) error) ([]*record.Record, error) {
	transitionErr := transition(ctx)
	if transitionErr != nil {
		var incident *bpmn.IncidentError
		if errors.As(transitionErr, &incident) {
			Log.Warn("raising incident for element instance:", ctx.Instance.Key, incident.Error())

			incidentRec, recErr := ctx.Behaviors.RaiseIncident(ctx, incident)
			if recErr != nil { return nil, recErr }

			return []*record.Record{ incidentRec }, nil
		}

		return nil, transitionErr
	}

	return ctx.Followups(), nil
}

func instanceTransitionRecord(instance *state.ElementInstance, intent record.Intent) (*record.Record, error) {
	value := &record.ProcessInstanceRecordValue{
		ElementId: instance.ElementId,
		ElementType: instance.ElementType,
		ProcessDefinitionKey: instance.ProcessDefinitionKey,
		ProcessInstanceKey: instance.ProcessInstanceKey,
		FlowScopeKey: instance.FlowScopeKey,
	}

	return record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, intent, instance.Key, value)
}

func elementActivationRecord(scopeInstance *state.ElementInstance, element *model.ExecutableFlowElement, flowScopeKey int64, variables json.RawMessage) (*record.Record, error) {
	value := &record.ProcessInstanceRecordValue{
		ElementId: element.Id,
		ElementType: element.ElementType,
		ProcessDefinitionKey: scopeInstance.ProcessDefinitionKey,
		ProcessInstanceKey: scopeInstance.ProcessInstanceKey,
		FlowScopeKey: flowScopeKey,
		Variables: variables,
	}

	return record.NewRecord[*record.ProcessInstanceRecordValue](record.ProcessInstanceValue, record.ElementActivating, 0, value)
}
