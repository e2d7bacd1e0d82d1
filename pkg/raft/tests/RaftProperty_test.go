package rafttests

import "fmt"
import "math/rand"
import "testing"

import "github.com/sirgallo/flow/pkg/raft"


/*
	randomized interleavings of ticks, deliveries, drops and proposals. every
	step checks election safety, log agreement is checked periodically and at
	the end, and once message loss stops the cluster must converge within a
	bounded number of steps
*/

func TestRandomizedOperationsHoldElectionSafetyAndLogAgreement(t *testing.T) {
	hosts := []string{ "flowsrv1", "flowsrv2", "flowsrv3" }
	mock := SetupMockCluster(t, hosts)

	random := rand.New(rand.NewSource(71))
	leadersByTerm := make(map[int64]string)

	proposed := 0

	for step := 0; step < 2000; step++ {
		switch random.Intn(10) {
			case 0, 1:
				mock.Nodes[hosts[random.Intn(len(hosts))]].Node.TickElection()
			case 2, 3:
				mock.Nodes[hosts[random.Intn(len(hosts))]].Node.TickHeartbeat()
			case 4:
				mock.Cluster.DropNext()
			case 5:
				for _, host := range hosts {
					if mock.Nodes[host].Node.CurrentRole() != raft.Leader { continue }

					_, proposeErr := mock.Nodes[host].Node.Propose(mockCommand(fmt.Sprintf("order-%d", proposed)))
					if proposeErr == nil { proposed++ }

					break
				}
			default:
				mock.Cluster.DeliverNext()
		}

		checkElectionSafety(t, mock, leadersByTerm)
		if step % 100 == 0 { checkLogAgreement(t, mock) }
	}

	for step := 0; step < 300; step++ {
		if len(mock.Leaders()) == 1 && mock.Cluster.Pending() == 0 { break }

		mock.Nodes[hosts[step % len(hosts)]].Node.TickElection()
		mock.Cluster.DeliverAll()
	}

	leaders := mock.Leaders()

	t.Logf("actual leaders after convergence: %v", leaders)
	if len(leaders) != 1 { t.Fatalf("actual leader count not equal to expected: actual(%d), expected(%d)\n", len(leaders), 1) }

	mock.Nodes[leaders[0]].Node.TickHeartbeat()
	mock.Cluster.DeliverAll()
	mock.Nodes[leaders[0]].Node.TickHeartbeat()
	mock.Cluster.DeliverAll()

	checkElectionSafety(t, mock, leadersByTerm)
	checkLogAgreement(t, mock)

	commit := mock.Nodes[leaders[0]].Node.CommitIndex()

	t.Logf("actual commit index after convergence: %d", commit)
	for _, host := range hosts {
		if mock.Nodes[host].Node.CommitIndex() != commit {
			t.Errorf("actual commit index not equal to expected: actual(%d), expected(%d)\n", mock.Nodes[host].Node.CommitIndex(), commit)
		}
	}
}

/*
	at most one leader per term, across the entire run
*/

func checkElectionSafety(t *testing.T, mock *MockCluster, leadersByTerm map[int64]string) {
	for _, host := range mock.Hosts {
		node := mock.Nodes[host].Node
		if node.CurrentRole() != raft.Leader { continue }

		term := node.CurrentTerm()

		existing, seen := leadersByTerm[term]
		if seen && existing != host {
			t.Fatalf("actual leaders for term %d not equal to expected: actual(%s and %s), expected(one leader)\n", term, existing, host)
		}

		leadersByTerm[term] = host
	}
}

/*
	applied sequences are prefixes of one another, entries at the same index
	agree on term
*/

func checkLogAgreement(t *testing.T, mock *MockCluster) {
	for _, first := range mock.Hosts {
		for _, second := range mock.Hosts {
			if first >= second { continue }

			firstApplied := mock.Nodes[first].Applied
			secondApplied := mock.Nodes[second].Applied

			shared := len(firstApplied)
			if len(secondApplied) < shared { shared = len(secondApplied) }

			for idx := 0; idx < shared; idx++ {
				if firstApplied[idx].Index != secondApplied[idx].Index || firstApplied[idx].Term != secondApplied[idx].Term {
					t.Fatalf("actual applied entry not equal to expected: actual(%d/%d on %s), expected(%d/%d on %s)\n",
						firstApplied[idx].Index, firstApplied[idx].Term, first, secondApplied[idx].Index, secondApplied[idx].Term, second)
				}
			}
		}
	}
}
