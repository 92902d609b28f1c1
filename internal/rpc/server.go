package rpc

import (
	"context"
	"math"
	"sync"

	"github.com/danielpatrickdp/uqrc-engine/internal/eval"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region engine

// Engine is the session API the server exposes.
type Engine interface {
	Turn(input string, feedback *float64) orchestrator.TurnResult
	Readiness() eval.Report
	AddHook(h hooks.Hook) error
}

// HookCounter is implemented by engines that can report their hook count.
type HookCounter interface {
	HookCount() int
}

// #endregion engine

// #region server

// Server serves one engine session. Calls are serialized with a mutex since
// the engine itself offers no mutual exclusion.
type Server struct {
	mu     sync.Mutex
	engine Engine
	logger *zap.Logger
}

// NewServer wraps engine. A nil logger disables logging.
func NewServer(engine Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: engine, logger: logger.Named("rpc")}
}

// Turn runs one turn.
func (s *Server) Turn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req TurnRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Feedback != nil && (math.IsNaN(*req.Feedback) || *req.Feedback < 0 || *req.Feedback > 1) {
		return nil, status.Errorf(codes.InvalidArgument, "feedback must be in [0, 1], got %v", *req.Feedback)
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	s.mu.Lock()
	res := s.engine.Turn(req.Input, req.Feedback)
	s.mu.Unlock()

	s.logger.Debug("turn served",
		zap.String("turn", res.TurnID),
		zap.String("trigger", string(res.Trigger)),
		zap.String("decision", string(res.Decision)))
	return encode(turnResponse(res))
}

// Readiness reports the readiness aggregate.
func (s *Server) Readiness(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	s.mu.Lock()
	report := s.engine.Readiness()
	s.mu.Unlock()
	return encode(report)
}

// AddHook registers a training hook.
func (s *Server) AddHook(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req AddHookRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.AddHook(hooks.Hook{Message: req.Message, Reply: req.Reply, IncurSentence: req.IncurSentence}); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp := AddHookResponse{Accepted: true}
	if c, ok := s.engine.(HookCounter); ok {
		resp.Count = c.HookCount()
	}
	return encode(resp)
}

func encode(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func turnResponse(res orchestrator.TurnResult) TurnResponse {
	return TurnResponse{
		TurnID:             res.TurnID,
		Output:             res.Output,
		Status:             string(res.Closure.Status),
		Score:              res.Closure.Score,
		Reasons:            res.Closure.Reasons,
		Forced:             res.Closure.Forced,
		HoldSteps:          res.HoldSteps,
		Trigger:            string(res.Trigger),
		Decision:           string(res.Decision),
		Step:               res.State.Step,
		AttractorDistance:  res.AttractorDistance,
		EntropyGate:        res.Diagnostics.EntropyGate,
		SemanticDivergence: res.SemanticDivergence,
	}
}

// #endregion server
