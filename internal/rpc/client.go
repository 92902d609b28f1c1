package rpc

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/uqrc-engine/internal/eval"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region client-struct
// Client wraps the gRPC connection to an engine server.
type Client struct {
	conn   *grpc.ClientConn
	client EngineClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to the engine gRPC server.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewEngineClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc EngineClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region turn
// Turn runs one turn on the server session.
func (c *Client) Turn(ctx context.Context, input string, feedback *float64) (TurnResponse, error) {
	in, err := toStruct(TurnRequest{Input: input, Feedback: feedback})
	if err != nil {
		return TurnResponse{}, err
	}
	resp, err := c.client.Turn(ctx, in)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("turn rpc: %w", err)
	}
	var out TurnResponse
	if err := fromStruct(resp, &out); err != nil {
		return TurnResponse{}, err
	}
	return out, nil
}

// #endregion turn

// #region readiness
// Readiness fetches the server's readiness report.
func (c *Client) Readiness(ctx context.Context) (eval.Report, error) {
	resp, err := c.client.Readiness(ctx, &structpb.Struct{})
	if err != nil {
		return eval.Report{}, fmt.Errorf("readiness rpc: %w", err)
	}
	var out eval.Report
	if err := fromStruct(resp, &out); err != nil {
		return eval.Report{}, err
	}
	return out, nil
}

// #endregion readiness

// #region add-hook
// AddHook registers a training hook on the server.
func (c *Client) AddHook(ctx context.Context, req AddHookRequest) (AddHookResponse, error) {
	in, err := toStruct(req)
	if err != nil {
		return AddHookResponse{}, err
	}
	resp, err := c.client.AddHook(ctx, in)
	if err != nil {
		return AddHookResponse{}, fmt.Errorf("add hook rpc: %w", err)
	}
	var out AddHookResponse
	if err := fromStruct(resp, &out); err != nil {
		return AddHookResponse{}, err
	}
	return out, nil
}

// #endregion add-hook
