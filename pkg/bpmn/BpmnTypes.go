package bpmn

import "fmt"

import "github.com/sirgallo/flow/pkg/model"
import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"


const NAME = "Bpmn"

/*
	the transition contract every element processor implements

	processors validate preconditions, mutate element instance and variable
	state, and emit zero or more follow up records through the element context.
	follow ups join the apply queue of the entry that produced them and are
	applied in emission order, inside the same state transaction.
*/

type ElementProcessor interface {
	OnActivate(ctx *ElementContext) error
	OnComplete(ctx *ElementContext) error
	OnTerminate(ctx *ElementContext) error
}

/*
	containers additionally react to child lifecycle to decide whether to
	advance, e.g. start the next child or complete themselves
*/

type ContainerProcessor interface {
	ElementProcessor

	OnChildCompleted(ctx *ElementContext, child *state.ElementInstance) error
	OnChildTerminated(ctx *ElementContext, child *state.ElementInstance) error
}

/*
	resolved context for a single element transition on the sequential apply path
*/

type ElementContext struct {
	Process  *model.ExecutableProcess
	Element  *model.ExecutableFlowElement
	Instance *state.ElementInstance

	Behaviors *Behaviors

	followups []*record.Record
}

func (ctx *ElementContext) Emit(rec *record.Record) {
	ctx.followups = append(ctx.followups, rec)
}

func (ctx *ElementContext) Followups() []*record.Record {
	return ctx.followups
}

/*
	a precondition failure inside a processor raises an incident scoped to the
	offending element instance. the incident is recorded and operator visible,
	the instance stalls at the element until resolved externally, replication is
	never crashed
*/

type IncidentError struct {
	ErrorType    string
	ErrorMessage string
}

func (incident *IncidentError) Error() string {
	return fmt.Sprintf("%s: %s", incident.ErrorType, incident.ErrorMessage)
}

func NewIncidentError(errorType string, errorMessage string) *IncidentError {
	return &IncidentError{
		ErrorType: errorType,
		ErrorMessage: errorMessage,
	}
}

const (
	IncidentExtractValueError = "EXTRACT_VALUE_ERROR"
	IncidentConditionError    = "CONDITION_ERROR"
	IncidentConfigurationError = "CONFIGURATION_ERROR"
)
