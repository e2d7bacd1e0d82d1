package statetests

import "testing"

import "github.com/sirgallo/flow/pkg/state"


func TestPutAndFindSubscriptionByName(t *testing.T) {
	engineState := SetupMockState(t)

	putErr := engineState.Subscriptions.PutSubscription(&state.EventSubscription{
		ScopeKey: 10,
		SubscriptionName: "payment-received",
		TargetElementId: "catch-payment",
	})

	if putErr != nil { t.Errorf("error on putting subscription: %s", putErr.Error()) }

	subscription, findErr := engineState.Subscriptions.FindSubscriptionByName("payment-received")
	if findErr != nil { t.Errorf("error on finding subscription: %s", findErr.Error()) }

	t.Logf("actual subscription: %v\n", subscription)

	if subscription == nil || subscription.ScopeKey != 10 || subscription.TargetElementId != "catch-payment" {
		t.Errorf("actual subscription not equal to expected: actual(%v), expected(scope 10, target catch-payment)\n", subscription)
	}
}

func TestFindSubscriptionByNameReturnsFirstInKeyOrder(t *testing.T) {
	engineState := SetupMockState(t)

	engineState.Subscriptions.PutSubscription(&state.EventSubscription{ ScopeKey: 20, SubscriptionName: "msg", TargetElementId: "late" })
	engineState.Subscriptions.PutSubscription(&state.EventSubscription{ ScopeKey: 5, SubscriptionName: "msg", TargetElementId: "early" })

	subscription, findErr := engineState.Subscriptions.FindSubscriptionByName("msg")
	if findErr != nil { t.Errorf("error on finding subscription: %s", findErr.Error()) }

	expectedScope := int64(5)

	t.Logf("actual scope: %d, expected scope: %d\n", subscription.ScopeKey, expectedScope)
	if subscription.ScopeKey != expectedScope {
		t.Errorf("actual scope not equal to expected: actual(%d), expected(%d)\n", subscription.ScopeKey, expectedScope)
	}
}

func TestFindMissingSubscriptionReturnsNil(t *testing.T) {
	engineState := SetupMockState(t)

	subscription, findErr := engineState.Subscriptions.FindSubscriptionByName("missing")
	if findErr != nil { t.Errorf("error on finding subscription: %s", findErr.Error()) }

	if subscription != nil {
		t.Errorf("actual subscription not equal to expected: actual(%v), expected(nil)\n", subscription)
	}
}

func TestRemoveSubscriptionsForScope(t *testing.T) {
	engineState := SetupMockState(t)

	engineState.Subscriptions.PutSubscription(&state.EventSubscription{ ScopeKey: 10, SubscriptionName: "a", TargetElementId: "el-a" })
	engineState.Subscriptions.PutSubscription(&state.EventSubscription{ ScopeKey: 10, SubscriptionName: "b", TargetElementId: "el-b" })
	engineState.Subscriptions.PutSubscription(&state.EventSubscription{ ScopeKey: 11, SubscriptionName: "c", TargetElementId: "el-c" })

	removeErr := engineState.Subscriptions.RemoveSubscriptionsForScope(10)
	if removeErr != nil { t.Errorf("error on removing subscriptions: %s", removeErr.Error()) }

	removed, getRemovedErr := engineState.Subscriptions.GetSubscriptionsForScope(10)
	if getRemovedErr != nil { t.Errorf("error on getting subscriptions: %s", getRemovedErr.Error()) }

	if len(removed) != 0 {
		t.Errorf("actual total not equal to expected: actual(%d), expected(0)\n", len(removed))
	}

	kept, getKeptErr := engineState.Subscriptions.GetSubscriptionsForScope(11)
	if getKeptErr != nil { t.Errorf("error on getting subscriptions: %s", getKeptErr.Error()) }

	if len(kept) != 1 {
		t.Errorf("actual total not equal to expected: actual(%d), expected(1)\n", len(kept))
	}
}
