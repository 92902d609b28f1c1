package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "uqrc.v1.Engine"

const (
	turnMethod      = "/" + ServiceName + "/Turn"
	readinessMethod = "/" + ServiceName + "/Readiness"
	addHookMethod   = "/" + ServiceName + "/AddHook"
)

// EngineServer is the server API of the engine service. Every message is a
// structpb.Struct.
type EngineServer interface {
	Turn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Readiness(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	AddHook(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc registers EngineServer on a grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Turn", Handler: unaryHandler(turnMethod, EngineServer.Turn)},
		{MethodName: "Readiness", Handler: unaryHandler(readinessMethod, EngineServer.Readiness)},
		{MethodName: "AddHook", Handler: unaryHandler(addHookMethod, EngineServer.AddHook)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "uqrc/v1/engine.proto",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryCall func(EngineServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EngineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(EngineServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// #endregion service-desc

// #region client-stub

// EngineClient is the client API of the engine service.
type EngineClient interface {
	Turn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Readiness(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	AddHook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type engineClient struct {
	cc grpc.ClientConnInterface
}

// NewEngineClient returns a stub over cc.
func NewEngineClient(cc grpc.ClientConnInterface) EngineClient {
	return &engineClient{cc: cc}
}

func (c *engineClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineClient) Turn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, turnMethod, in, opts)
}

func (c *engineClient) Readiness(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, readinessMethod, in, opts)
}

func (c *engineClient) AddHook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, addHookMethod, in, opts)
}

// #endregion client-stub
