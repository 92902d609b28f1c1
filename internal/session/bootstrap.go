package session

import (
	"fmt"

	"github.com/danielpatrickdp/uqrc-engine/internal/config"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"go.uber.org/zap"
)

// Bootstrap loads the config at path (defaults when absent), applies UQRC_*
// overrides, builds the logger and opens a session.
func Bootstrap(path string, opts ...orchestrator.Option) (*Session, *zap.Logger, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}

	s, err := Open(cfg, logger, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	return s, logger, nil
}
