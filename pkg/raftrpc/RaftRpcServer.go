package raftrpc

import "context"

import "google.golang.org/grpc"


//=========================================== Raft RPC Server


type RaftServiceServer interface {
	RequestVoteRPC(ctx context.Context, req *RequestVoteRequest) (*RequestVoteResponse, error)
	AppendEntriesRPC(ctx context.Context, req *AppendEntriesRequest) (*AppendEntriesResponse, error)
	InstallSnapshotRPC(ctx context.Context, req *InstallSnapshotRequest) (*InstallSnapshotResponse, error)
	ProposeRPC(ctx context.Context, req *ProposeRequest) (*ProposeResponse, error)
}

func RegisterRaftServiceServer(s grpc.ServiceRegistrar, srv RaftServiceServer) {
	s.RegisterService(&RaftService_ServiceDesc, srv)
}

func _RaftService_RequestVoteRPC_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RequestVoteRequest)
	if decErr := dec(in); decErr != nil { return nil, decErr }

	if interceptor == nil { return srv.(RaftServiceServer).RequestVoteRPC(ctx, in) }

	info := &grpc.UnaryServerInfo{
		Server: srv,
		FullMethod: "/" + ServiceName + "/RequestVoteRPC",
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RaftServiceServer).RequestVoteRPC(ctx, req.(*RequestVoteRequest))
	}

	return interceptor(ctx, in, info, handler)
}

func _RaftService_AppendEntriesRPC_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AppendEntriesRequest)
	if decErr := dec(in); decErr != nil { return nil, decErr }

	if interceptor == nil { return srv.(RaftServiceServer).AppendEntriesRPC(ctx, in) }

	info := &grpc.UnaryServerInfo{
		Server: srv,
		FullMethod: "/" + ServiceName + "/AppendEntriesRPC",
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RaftServiceServer).AppendEntriesRPC(ctx, req.(*AppendEntriesRequest))
	}

	return interceptor(ctx, in, info, handler)
}

func _RaftService_InstallSnapshotRPC_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(InstallSnapshotRequest)
	if decErr := dec(in); decErr != nil { return nil, decErr }

	if interceptor == nil { return srv.(RaftServiceServer).InstallSnapshotRPC(ctx, in) }

	info := &grpc.UnaryServerInfo{
		Server: srv,
		FullMethod: "/" + ServiceName + "/InstallSnapshotRPC",
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RaftServiceServer).InstallSnapshotRPC(ctx, req.(*InstallSnapshotRequest))
	}

	return interceptor(ctx, in, info, handler)
}

func _RaftService_ProposeRPC_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProposeRequest)
	if decErr := dec(in); decErr != nil { return nil, decErr }

	if interceptor == nil { return srv.(RaftServiceServer).ProposeRPC(ctx, in) }

	info := &grpc.UnaryServerInfo{
		Server: srv,
		FullMethod: "/" + ServiceName + "/ProposeRPC",
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RaftServiceServer).ProposeRPC(ctx, req.(*ProposeRequest))
	}

	return interceptor(ctx, in, info, handler)
}

var RaftService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RaftServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RequestVoteRPC",
			Handler: _RaftService_RequestVoteRPC_Handler,
		},
		{
			MethodName: "AppendEntriesRPC",
			Handler: _RaftService_AppendEntriesRPC_Handler,
		},
		{
			MethodName: "InstallSnapshotRPC",
			Handler: _RaftService_InstallSnapshotRPC_Handler,
		},
		{
			MethodName: "ProposeRPC",
			Handler: _RaftService_ProposeRPC_Handler,
		},
	},
	Streams: []grpc.StreamDesc{},
	Metadata: "raftrpc",
}
