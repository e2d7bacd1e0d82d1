package rafttests

import "testing"

import "github.com/sirgallo/flow/pkg/log"
import "github.com/sirgallo/flow/pkg/raft"
import "github.com/sirgallo/flow/pkg/transport"
import "github.com/sirgallo/flow/pkg/wal"


/*
	a deterministic raft harness, nodes exchange messages through the sim
	cluster and only advance when the test delivers them
*/

type MockNode struct {
	Node    *raft.RaftNode
	Applied []*log.LogEntry
}

type MockCluster struct {
	Cluster *transport.SimCluster
	Nodes   map[string]*MockNode
	Hosts   []string
}

func SetupMockCluster(t *testing.T, hosts []string) *MockCluster {
	cluster := transport.NewSimCluster()

	mock := &MockCluster{
		Cluster: cluster,
		Nodes: make(map[string]*MockNode),
		Hosts: hosts,
	}

	for _, host := range hosts {
		nodeWAL, walErr := wal.NewWAL(t.TempDir())
		if walErr != nil { t.Fatalf("unable to create or open WAL: %s", walErr.Error()) }

		t.Cleanup(func() { nodeWAL.Close() })

		mockNode := &MockNode{}

		peers := []string{}
		for _, peer := range hosts {
			if peer != host { peers = append(peers, peer) }
		}

		node, nodeErr := raft.NewRaftNode(&raft.RaftNodeOpts{
			Host: host,
			Peers: peers,
			WAL: nodeWAL,
			ElectionTimeoutMinMs: 150,
			ElectionTimeoutMaxMs: 300,
			HeartbeatIntervalMs: 50,
			ApplyFunc: func(entry *log.LogEntry) error {
				mockNode.Applied = append(mockNode.Applied, entry)
				return nil
			},
		})

		if nodeErr != nil { t.Fatalf("unable to initialize raft node: %s", nodeErr.Error()) }

		node.SetTransport(cluster.Register(host, node))

		mockNode.Node = node
		mock.Nodes[host] = mockNode
	}

	return mock
}

func (mock *MockCluster) Leaders() []string {
	leaders := []string{}
	for _, host := range mock.Hosts {
		if mock.Nodes[host].Node.CurrentRole() == raft.Leader { leaders = append(leaders, host) }
	}

	return leaders
}

func (mock *MockCluster) AppliedCommands(host string) []*log.LogEntry {
	commands := []*log.LogEntry{}
	for _, entry := range mock.Nodes[host].Applied {
		if entry.EntryType == log.EntryCommand { commands = append(commands, entry) }
	}

	return commands
}
