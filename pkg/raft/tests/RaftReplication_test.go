package rafttests

import "encoding/json"
import "testing"

import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/record"


func mockCommand(payload string) record.Record {
	return record.Record{
		ValueType: record.ProcessInstanceValue,
		Intent: record.ElementActivating,
		Value: json.RawMessage(`"` + payload + `"`),
	}
}

func TestProposeReplicatesAndCommits(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	index, proposeErr := mock.Nodes["flowsrv1"].Node.Propose(mockCommand("order-1"))
	if proposeErr != nil { t.Errorf("error on proposing command: %s", proposeErr.Error()) }

	expectedIndex := int64(1)

	t.Logf("actual index: %d, expected index: %d\n", index, expectedIndex)
	if index != expectedIndex {
		t.Errorf("actual index not equal to expected: actual(%d), expected(%d)\n", index, expectedIndex)
	}

	mock.Cluster.DeliverAll()

	// followers learn the advanced commit index on the next heartbeat
	mock.Nodes["flowsrv1"].Node.TickHeartbeat()
	mock.Cluster.DeliverAll()

	for _, host := range mock.Hosts {
		commitIndex := mock.Nodes[host].Node.CommitIndex()
		if commitIndex != expectedIndex {
			t.Errorf("actual commit index on %s not equal to expected: actual(%d), expected(%d)\n", host, commitIndex, expectedIndex)
		}

		commands := mock.AppliedCommands(host)
		if len(commands) != 1 || commands[0].Index != expectedIndex {
			t.Errorf("actual applied commands on %s not equal to expected: actual(%v), expected(1 command at index 1)\n", host, commands)
		}
	}
}

func TestFollowerRefusesProposals(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	_, proposeErr := mock.Nodes["flowsrv2"].Node.Propose(mockCommand("order-1"))

	t.Logf("actual error: %v, expected error: %v\n", proposeErr, raft.ErrNotLeader)
	if proposeErr != raft.ErrNotLeader {
		t.Errorf("actual error not equal to expected: actual(%v), expected(%v)\n", proposeErr, raft.ErrNotLeader)
	}
}

func TestApplyOrderMatchesLogOrder(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	payloads := []string{ "order-1", "order-2", "order-3" }
	for _, payload := range payloads {
		_, proposeErr := mock.Nodes["flowsrv1"].Node.Propose(mockCommand(payload))
		if proposeErr != nil { t.Errorf("error on proposing command: %s", proposeErr.Error()) }

		mock.Cluster.DeliverAll()
	}

	mock.Nodes["flowsrv1"].Node.TickHeartbeat()
	mock.Cluster.DeliverAll()

	for _, host := range mock.Hosts {
		commands := mock.AppliedCommands(host)

		if len(commands) != len(payloads) {
			t.Errorf("actual total applied on %s not equal to expected: actual(%d), expected(%d)\n", host, len(commands), len(payloads))
			continue
		}

		for i, command := range commands {
			if command.Index != int64(i + 1) {
				t.Errorf("actual applied index on %s not equal to expected: actual(%d), expected(%d)\n", host, command.Index, i + 1)
			}
		}
	}
}

func TestPartitionedFollowerCatchesUp(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	mock.Cluster.Partition("flowsrv3")

	for _, payload := range []string{ "order-1", "order-2" } {
		_, proposeErr := mock.Nodes["flowsrv1"].Node.Propose(mockCommand(payload))
		if proposeErr != nil { t.Errorf("error on proposing command: %s", proposeErr.Error()) }

		mock.Cluster.DeliverAll()
	}

	// the remaining majority still commits
	expectedCommit := int64(2)

	leaderCommit := mock.Nodes["flowsrv1"].Node.CommitIndex()
	if leaderCommit != expectedCommit {
		t.Errorf("actual leader commit index not equal to expected: actual(%d), expected(%d)\n", leaderCommit, expectedCommit)
	}

	behind := mock.Nodes["flowsrv3"].Node.LastLogIndex()
	if behind >= expectedCommit {
		t.Errorf("actual partitioned log end not equal to expected: actual(%d), expected(< %d)\n", behind, expectedCommit)
	}

	mock.Cluster.Heal("flowsrv3")

	mock.Nodes["flowsrv1"].Node.TickHeartbeat()
	mock.Cluster.DeliverAll()

	caughtUp := mock.Nodes["flowsrv3"].Node.LastLogIndex()

	t.Logf("actual caught up log end: %d, expected caught up log end: %d\n", caughtUp, expectedCommit)
	if caughtUp != expectedCommit {
		t.Errorf("actual caught up log end not equal to expected: actual(%d), expected(%d)\n", caughtUp, expectedCommit)
	}

	commands := mock.AppliedCommands("flowsrv3")
	if len(commands) != 2 {
		t.Errorf("actual total applied not equal to expected: actual(%d), expected(2)\n", len(commands))
	}
}

func TestDivergedFollowerTruncatesConflictingSuffix(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	// the partitioned leader appends an entry that will never commit
	mock.Cluster.Partition("flowsrv1")

	_, staleErr := mock.Nodes["flowsrv1"].Node.Propose(mockCommand("stale"))
	if staleErr != nil { t.Errorf("error on proposing command: %s", staleErr.Error()) }

	mock.Cluster.DeliverAll()

	mock.Nodes["flowsrv2"].Node.TickElection()
	mock.Cluster.DeliverAll()

	_, proposeErr := mock.Nodes["flowsrv2"].Node.Propose(mockCommand("order-1"))
	if proposeErr != nil { t.Errorf("error on proposing command: %s", proposeErr.Error()) }

	mock.Cluster.DeliverAll()

	mock.Cluster.Heal("flowsrv1")

	mock.Nodes["flowsrv2"].Node.TickHeartbeat()
	mock.Cluster.DeliverAll()

	expectedLogEnd := mock.Nodes["flowsrv2"].Node.LastLogIndex()
	healedLogEnd := mock.Nodes["flowsrv1"].Node.LastLogIndex()

	t.Logf("actual healed log end: %d, expected healed log end: %d\n", healedLogEnd, expectedLogEnd)
	if healedLogEnd != expectedLogEnd {
		t.Errorf("actual healed log end not equal to expected: actual(%d), expected(%d)\n", healedLogEnd, expectedLogEnd)
	}

	role := mock.Nodes["flowsrv1"].Node.CurrentRole()
	if role != raft.Follower {
		t.Errorf("actual role not equal to expected: actual(%s), expected(%s)\n", role, raft.Follower)
	}
}
