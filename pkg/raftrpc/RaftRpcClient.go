package raftrpc

import "context"

import "google.golang.org/grpc"


//=========================================== Raft RPC Client


const ServiceName = "raftrpc.RaftService"

type RaftServiceClient interface {
	RequestVoteRPC(ctx context.Context, in *RequestVoteRequest, opts ...grpc.CallOption) (*RequestVoteResponse, error)
	AppendEntriesRPC(ctx context.Context, in *AppendEntriesRequest, opts ...grpc.CallOption) (*AppendEntriesResponse, error)
	InstallSnapshotRPC(ctx context.Context, in *InstallSnapshotRequest, opts ...grpc.CallOption) (*InstallSnapshotResponse, error)
	ProposeRPC(ctx context.Context, in *ProposeRequest, opts ...grpc.CallOption) (*ProposeResponse, error)
}

type raftServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRaftServiceClient(cc grpc.ClientConnInterface) RaftServiceClient {
	return &raftServiceClient{ cc: cc }
}

func (c *raftServiceClient) RequestVoteRPC(ctx context.Context, in *RequestVoteRequest, opts ...grpc.CallOption) (*RequestVoteResponse, error) {
	out := new(RequestVoteResponse)
	invokeErr := c.cc.Invoke(ctx, "/" + ServiceName + "/RequestVoteRPC", in, out, withCodec(opts)...)
	if invokeErr != nil { return nil, invokeErr }

	return out, nil
}

func (c *raftServiceClient) AppendEntriesRPC(ctx context.Context, in *AppendEntriesRequest, opts ...grpc.CallOption) (*AppendEntriesResponse, error) {
	out := new(AppendEntriesResponse)
	invokeErr := c.cc.Invoke(ctx, "/" + ServiceName + "/AppendEntriesRPC", in, out, withCodec(opts)...)
	if invokeErr != nil { return nil, invokeErr }

	return out, nil
}

func (c *raftServiceClient) InstallSnapshotRPC(ctx context.Context, in *InstallSnapshotRequest, opts ...grpc.CallOption) (*InstallSnapshotResponse, error) {
	out := new(InstallSnapshotResponse)
	invokeErr := c.cc.Invoke(ctx, "/" + ServiceName + "/InstallSnapshotRPC", in, out, withCodec(opts)...)
	if invokeErr != nil { return nil, invokeErr }

	return out, nil
}

func (c *raftServiceClient) ProposeRPC(ctx context.Context, in *ProposeRequest, opts ...grpc.CallOption) (*ProposeResponse, error) {
	out := new(ProposeResponse)
	invokeErr := c.cc.Invoke(ctx, "/" + ServiceName + "/ProposeRPC", in, out, withCodec(opts)...)
	if invokeErr != nil { return nil, invokeErr }

	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{ grpc.CallContentSubtype(CodecName) }, opts...)
}
