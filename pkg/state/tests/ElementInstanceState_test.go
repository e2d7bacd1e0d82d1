package statetests

import "testing"

import "github.com/sirgallo/flow/pkg/record"
import "github.com/sirgallo/flow/pkg/state"


func TestNewInstanceIncrementsParentActiveChildren(t *testing.T) {
	engineState := SetupMockState(t)

	registerScope(t, engineState, state.NoParent, 1)
	registerScope(t, engineState, 1, 2)
	registerScope(t, engineState, 1, 3)

	parent, getErr := engineState.ElementInstances.GetInstance(1)
	if getErr != nil { t.Errorf("error on getting instance: %s", getErr.Error()) }

	expectedChildren := 2

	t.Logf("actual active children: %d, expected active children: %d\n", parent.ActiveChildren, expectedChildren)
	if parent.ActiveChildren != expectedChildren {
		t.Errorf("actual active children not equal to expected: actual(%d), expected(%d)\n", parent.ActiveChildren, expectedChildren)
	}
}

func TestRemoveInstanceDecrementsParentActiveChildren(t *testing.T) {
	engineState := SetupMockState(t)

	registerScope(t, engineState, state.NoParent, 1)
	registerScope(t, engineState, 1, 2)
	registerScope(t, engineState, 1, 3)

	removeErr := engineState.ElementInstances.RemoveInstance(2)
	if removeErr != nil { t.Errorf("error on removing instance: %s", removeErr.Error()) }

	parent, getErr := engineState.ElementInstances.GetInstance(1)
	if getErr != nil { t.Errorf("error on getting instance: %s", getErr.Error()) }

	expectedChildren := 1

	t.Logf("actual active children: %d, expected active children: %d\n", parent.ActiveChildren, expectedChildren)
	if parent.ActiveChildren != expectedChildren {
		t.Errorf("actual active children not equal to expected: actual(%d), expected(%d)\n", parent.ActiveChildren, expectedChildren)
	}

	removed, getRemovedErr := engineState.ElementInstances.GetInstance(2)
	if getRemovedErr != nil { t.Errorf("error on getting instance: %s", getRemovedErr.Error()) }

	if removed != nil {
		t.Errorf("actual removed instance not equal to expected: actual(%v), expected(nil)\n", removed)
	}
}

func TestSetIntentTransitionsTheInstance(t *testing.T) {
	engineState := SetupMockState(t)

	registerScope(t, engineState, state.NoParent, 1)

	setErr := engineState.ElementInstances.SetIntent(1, record.ElementCompleting)
	if setErr != nil { t.Errorf("error on setting intent: %s", setErr.Error()) }

	instance, getErr := engineState.ElementInstances.GetInstance(1)
	if getErr != nil { t.Errorf("error on getting instance: %s", getErr.Error()) }

	t.Logf("actual intent: %s, expected intent: %s\n", instance.Intent, record.ElementCompleting)
	if instance.Intent != record.ElementCompleting {
		t.Errorf("actual intent not equal to expected: actual(%s), expected(%s)\n", instance.Intent, record.ElementCompleting)
	}
}

func TestGetChildrenReturnsDirectChildrenOnly(t *testing.T) {
	engineState := SetupMockState(t)

	registerScope(t, engineState, state.NoParent, 1)
	registerScope(t, engineState, 1, 2)
	registerScope(t, engineState, 1, 3)
	registerScope(t, engineState, 2, 4)

	children, getErr := engineState.ElementInstances.GetChildren(1)
	if getErr != nil { t.Errorf("error on getting children: %s", getErr.Error()) }

	expectedTotal := 2

	t.Logf("actual total children: %d, expected total children: %d\n", len(children), expectedTotal)
	if len(children) != expectedTotal {
		t.Errorf("actual total children not equal to expected: actual(%d), expected(%d)\n", len(children), expectedTotal)
	}
}

func TestRemoveMissingInstanceIsANoop(t *testing.T) {
	engineState := SetupMockState(t)

	removeErr := engineState.ElementInstances.RemoveInstance(99)
	if removeErr != nil { t.Errorf("error on removing missing instance: %s", removeErr.Error()) }
}
