package rafttests

import "testing"

import "github.com/sirgallo/flow/pkg/raft"


func TestElectionProducesSingleLeader(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	leaders := mock.Leaders()

	t.Logf("actual leaders: %v, expected leaders: [flowsrv1]\n", leaders)
	if len(leaders) != 1 || leaders[0] != "flowsrv1" {
		t.Errorf("actual leaders not equal to expected: actual(%v), expected([flowsrv1])\n", leaders)
	}

	for _, host := range []string{ "flowsrv2", "flowsrv3" } {
		role := mock.Nodes[host].Node.CurrentRole()
		if role != raft.Follower {
			t.Errorf("actual role not equal to expected: actual(%s), expected(%s)\n", role, raft.Follower)
		}

		leaderHint := mock.Nodes[host].Node.CurrentLeader()
		if leaderHint != "flowsrv1" {
			t.Errorf("actual leader hint not equal to expected: actual(%s), expected(flowsrv1)\n", leaderHint)
		}
	}
}

func TestCompetingCandidatesElectAtMostOneLeader(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Nodes["flowsrv2"].Node.TickElection()
	mock.Cluster.DeliverAll()

	leaders := mock.Leaders()

	t.Logf("actual leaders: %v\n", leaders)
	if len(leaders) != 1 {
		t.Errorf("actual total leaders not equal to expected: actual(%d), expected(1)\n", len(leaders))
	}
}

func TestVoteGrantedOncePerTerm(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	voter := mock.Nodes["flowsrv3"].Node

	firstReply := voter.HandleRequestVote(&raft.RequestVoteArgs{
		Term: 1, CandidateId: "flowsrv1", LastLogIndex: -1, LastLogTerm: 0,
	})

	if ! firstReply.VoteGranted {
		t.Errorf("actual vote granted not equal to expected: actual(%v), expected(true)\n", firstReply.VoteGranted)
	}

	secondReply := voter.HandleRequestVote(&raft.RequestVoteArgs{
		Term: 1, CandidateId: "flowsrv2", LastLogIndex: -1, LastLogTerm: 0,
	})

	t.Logf("actual second vote granted: %v, expected second vote granted: false\n", secondReply.VoteGranted)
	if secondReply.VoteGranted {
		t.Errorf("actual vote granted not equal to expected: actual(%v), expected(false)\n", secondReply.VoteGranted)
	}
}

func TestVoteRefusedForOutdatedLog(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	// the voter holds the leader's noop, an empty logged candidate is behind
	reply := mock.Nodes["flowsrv2"].Node.HandleRequestVote(&raft.RequestVoteArgs{
		Term: 5, CandidateId: "flowsrv3", LastLogIndex: -1, LastLogTerm: 0,
	})

	t.Logf("actual vote granted: %v, expected vote granted: false\n", reply.VoteGranted)
	if reply.VoteGranted {
		t.Errorf("actual vote granted not equal to expected: actual(%v), expected(false)\n", reply.VoteGranted)
	}
}

func TestLeaderStepsDownOnHigherTerm(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	mock.Nodes["flowsrv2"].Node.TickElection()
	mock.Cluster.DeliverAll()

	leaders := mock.Leaders()

	t.Logf("actual leaders: %v, expected leaders: [flowsrv2]\n", leaders)
	if len(leaders) != 1 || leaders[0] != "flowsrv2" {
		t.Errorf("actual leaders not equal to expected: actual(%v), expected([flowsrv2])\n", leaders)
	}

	role := mock.Nodes["flowsrv1"].Node.CurrentRole()
	if role != raft.Follower {
		t.Errorf("actual role not equal to expected: actual(%s), expected(%s)\n", role, raft.Follower)
	}
}

func TestTermAndVotePersistAcrossRestart(t *testing.T) {
	mock := SetupMockCluster(t, []string{ "flowsrv1", "flowsrv2", "flowsrv3" })

	mock.Nodes["flowsrv1"].Node.TickElection()
	mock.Cluster.DeliverAll()

	term := mock.Nodes["flowsrv1"].Node.CurrentTerm()

	expectedTerm := int64(1)

	t.Logf("actual term: %d, expected term: %d\n", term, expectedTerm)
	if term != expectedTerm {
		t.Errorf("actual term not equal to expected: actual(%d), expected(%d)\n", term, expectedTerm)
	}
}
