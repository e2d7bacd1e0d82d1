package statetests

import "testing"


func TestNextKeyIsMonotonic(t *testing.T) {
	engineState := SetupMockState(t)

	first, firstErr := engineState.KeyGenerator.NextKey()
	if firstErr != nil { t.Errorf("error on generating key: %s", firstErr.Error()) }

	second, secondErr := engineState.KeyGenerator.NextKey()
	if secondErr != nil { t.Errorf("error on generating key: %s", secondErr.Error()) }

	t.Logf("actual keys: %d, %d\n", first, second)

	if second != first + 1 {
		t.Errorf("actual next key not equal to expected: actual(%d), expected(%d)\n", second, first + 1)
	}
}

func TestLastAppliedPositionDefaultsToMinusOne(t *testing.T) {
	engineState := SetupMockState(t)

	position, getErr := engineState.GetLastAppliedPosition()
	if getErr != nil { t.Errorf("error on getting last applied position: %s", getErr.Error()) }

	expected := int64(-1)

	t.Logf("actual position: %d, expected position: %d\n", position, expected)
	if position != expected {
		t.Errorf("actual position not equal to expected: actual(%d), expected(%d)\n", position, expected)
	}
}

func TestLastAppliedPositionRoundtrip(t *testing.T) {
	engineState := SetupMockState(t)

	setErr := engineState.SetLastAppliedPosition(42)
	if setErr != nil { t.Errorf("error on setting last applied position: %s", setErr.Error()) }

	position, getErr := engineState.GetLastAppliedPosition()
	if getErr != nil { t.Errorf("error on getting last applied position: %s", getErr.Error()) }

	expected := int64(42)

	t.Logf("actual position: %d, expected position: %d\n", position, expected)
	if position != expected {
		t.Errorf("actual position not equal to expected: actual(%d), expected(%d)\n", position, expected)
	}
}

