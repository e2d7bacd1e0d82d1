package rafttests

import "testing"


func TestTakeSnapshotCompactsTheLog(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	leader := mock.Nodes["flowsrv1"].Node

	leader.TickElection()
	mock.Cluster.DeliverAll()

	for _, payload := range []string{ "order-1", "order-2", "order-3" } {
		_, proposeErr := leader.Propose(mockCommand(payload))
		if proposeErr != nil { t.Errorf("error on proposing command: %s", proposeErr.Error()) }

		mock.Cluster.DeliverAll()
	}

	snapErr := leader.TakeSnapshot([]byte("statedata"), 3)
	if snapErr != nil { t.Errorf("error on taking snapshot: %s", snapErr.Error()) }

	expectedFloor := int64(3)

	snapshotIndex := leader.SnapshotIndex()

	t.Logf("actual snapshot index: %d, expected snapshot index: %d\n", snapshotIndex, expectedFloor)
	if snapshotIndex != expectedFloor {
		t.Errorf("actual snapshot index not equal to expected: actual(%d), expected(%d)\n", snapshotIndex, expectedFloor)
	}
}

func TestLaggingFollowerRestoresFromSnapshot(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	leader := mock.Nodes["flowsrv1"].Node

	leader.TickElection()
	mock.Cluster.DeliverAll()

	mock.Cluster.Partition("flowsrv3")

	for _, payload := range []string{ "order-1", "order-2", "order-3" } {
		_, proposeErr := leader.Propose(mockCommand(payload))
		if proposeErr != nil { t.Errorf("error on proposing command: %s", proposeErr.Error()) }

		mock.Cluster.DeliverAll()
	}

	snapErr := leader.TakeSnapshot([]byte("statedata"), 3)
	if snapErr != nil { t.Errorf("error on taking snapshot: %s", snapErr.Error()) }

	mock.Cluster.Heal("flowsrv3")

	leader.TickHeartbeat()
	mock.Cluster.DeliverAll()

	lagging := mock.Nodes["flowsrv3"].Node

	expectedFloor := int64(3)

	t.Logf("actual follower snapshot index: %d, expected follower snapshot index: %d\n", lagging.SnapshotIndex(), expectedFloor)
	if lagging.SnapshotIndex() != expectedFloor {
		t.Errorf("actual follower snapshot index not equal to expected: actual(%d), expected(%d)\n", lagging.SnapshotIndex(), expectedFloor)
	}

	if lagging.CommitIndex() != expectedFloor {
		t.Errorf("actual follower commit index not equal to expected: actual(%d), expected(%d)\n", lagging.CommitIndex(), expectedFloor)
	}
}

func TestTakeSnapshotKeepsEntriesBeyondTheCapturedPosition(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	leader := mock.Nodes["flowsrv1"].Node

	leader.TickElection()
	mock.Cluster.DeliverAll()

	mock.Cluster.Partition("flowsrv3")

	for _, payload := range []string{ "order-1", "order-2", "order-3", "order-4" } {
		_, proposeErr := leader.Propose(mockCommand(payload))
		if proposeErr != nil { t.Errorf("error on proposing command: %s", proposeErr.Error()) }

		mock.Cluster.DeliverAll()
	}

	// the state data was serialized when entry 2 was the newest applied entry,
	// entries 3 and 4 applied afterwards and must survive compaction
	capturedPosition := int64(2)

	snapErr := leader.TakeSnapshot([]byte("statedata"), capturedPosition)
	if snapErr != nil { t.Errorf("error on taking snapshot: %s", snapErr.Error()) }

	t.Logf("actual snapshot index: %d, expected snapshot index: %d\n", leader.SnapshotIndex(), capturedPosition)
	if leader.SnapshotIndex() != capturedPosition {
		t.Errorf("actual snapshot index not equal to expected: actual(%d), expected(%d)\n", leader.SnapshotIndex(), capturedPosition)
	}

	mock.Cluster.Heal("flowsrv3")

	for round := 0; round < 3; round++ {
		leader.TickHeartbeat()
		mock.Cluster.DeliverAll()
	}

	lagging := mock.Nodes["flowsrv3"].Node

	expectedCommit := int64(4)

	t.Logf("actual follower commit index: %d, expected follower commit index: %d\n", lagging.CommitIndex(), expectedCommit)
	if lagging.CommitIndex() != expectedCommit {
		t.Errorf("actual follower commit index not equal to expected: actual(%d), expected(%d)\n", lagging.CommitIndex(), expectedCommit)
	}

	applied := mock.AppliedCommands("flowsrv3")

	expectedApplied := 2

	t.Logf("actual follower applied commands beyond the snapshot: %d, expected: %d\n", len(applied), expectedApplied)
	if len(applied) != expectedApplied {
		t.Errorf("actual follower applied command count not equal to expected: actual(%d), expected(%d)\n", len(applied), expectedApplied)
	}

	if len(applied) == expectedApplied && applied[len(applied) - 1].Index != expectedCommit {
		t.Errorf("actual last applied index not equal to expected: actual(%d), expected(%d)\n", applied[len(applied) - 1].Index, expectedCommit)
	}
}
