package transport

import "github.com/sirgallo/flow/pkg/raft"


//=========================================== Sim Transport


func NewSimCluster() *SimCluster {
	return &SimCluster{
		handlers: make(map[string]MessageHandler),
		partitioned: make(map[string]bool),
	}
}

/*
	register a participant and hand back its transport bound to the cluster
*/

func (cluster *SimCluster) Register(host string, handler MessageHandler) *SimTransport {
	cluster.mu.Lock()
	defer cluster.mu.Unlock()

	cluster.handlers[host] = handler

	return &SimTransport{
		cluster: cluster,
		host: host,
	}
}

/*
	a partitioned host neither sends nor receives until healed, messages
	touching it are dropped at delivery time
*/

func (cluster *SimCluster) Partition(host string) {
	cluster.mu.Lock()
	defer cluster.mu.Unlock()

	cluster.partitioned[host] = true
}

func (cluster *SimCluster) Heal(host string) {
	cluster.mu.Lock()
	defer cluster.mu.Unlock()

	delete(cluster.partitioned, host)
}

func (cluster *SimCluster) Pending() int {
	cluster.mu.Lock()
	defer cluster.mu.Unlock()

	return len(cluster.queue)
}

/*
	Deliver Next
		deliver the oldest in flight message, false when the queue is empty.
		requests dispatch synchronously and their response joins the queue as
		its own message, so it can be delivered or dropped independently
*/

func (cluster *SimCluster) DeliverNext() bool {
	msg := cluster.popNext()
	if msg == nil { return false }

	cluster.dispatch(msg)
	return true
}

/*
	drop the oldest in flight message instead of delivering it
*/

func (cluster *SimCluster) DropNext() bool {
	return cluster.popNext() != nil
}

/*
	deliver every in flight message including the ones generated while
	delivering, returns the total delivered
*/

func (cluster *SimCluster) DeliverAll() int {
	delivered := 0
	for cluster.DeliverNext() { delivered++ }

	return delivered
}

func (cluster *SimCluster) popNext() *SimMessage {
	cluster.mu.Lock()
	defer cluster.mu.Unlock()

	if len(cluster.queue) == 0 { return nil }

	msg := cluster.queue[0]
	cluster.queue = cluster.queue[1:]

	return msg
}

func (cluster *SimCluster) enqueue(msg *SimMessage) {
	cluster.mu.Lock()
	defer cluster.mu.Unlock()

	cluster.queue = append(cluster.queue, msg)
}

/*
	dispatch outside the cluster lock, handlers send follow up messages through
	their transports while handling
*/

func (cluster *SimCluster) dispatch(msg *SimMessage) {
	cluster.mu.Lock()
	dropped := cluster.partitioned[msg.From] || cluster.partitioned[msg.To]
	handler := cluster.handlers[msg.To]
	cluster.mu.Unlock()

	if dropped || handler == nil { return }

	switch payload := msg.Payload.(type) {
		case *raft.RequestVoteArgs:
			reply := handler.HandleRequestVote(payload)
			cluster.enqueue(&SimMessage{ From: msg.To, To: msg.From, Payload: reply })
		case *raft.AppendEntriesArgs:
			reply := handler.HandleAppendEntries(payload)
			cluster.enqueue(&SimMessage{ From: msg.To, To: msg.From, Payload: reply })
		case *raft.InstallSnapshotArgs:
			reply := handler.HandleInstallSnapshot(payload)
			cluster.enqueue(&SimMessage{ From: msg.To, To: msg.From, Payload: reply })
		case *raft.RequestVoteReply:
			handler.HandleRequestVoteResponse(msg.From, payload)
		case *raft.AppendEntriesReply:
			handler.HandleAppendEntriesResponse(msg.From, payload)
		case *raft.InstallSnapshotReply:
			handler.HandleInstallSnapshotResponse(msg.From, payload)
	}
}

func (transport *SimTransport) SendRequestVote(to string, args *raft.RequestVoteArgs) {
	transport.cluster.enqueue(&SimMessage{ From: transport.host, To: to, Payload: args })
}

func (transport *SimTransport) SendAppendEntries(to string, args *raft.AppendEntriesArgs) {
	transport.cluster.enqueue(&SimMessage{ From: transport.host, To: to, Payload: args })
}

func (transport *SimTransport) SendInstallSnapshot(to string, args *raft.InstallSnapshotArgs) {
	transport.cluster.enqueue(&SimMessage{ From: transport.host, To: to, Payload: args })
}
