package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/danielpatrickdp/uqrc-engine/internal/session"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOut    bool
	last       int

	rootCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Inspect persisted engine stores",
		Long:  `Reads the configured storage and renders memory, metrics, readiness, hooks or provenance.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	memoryCmd = &cobra.Command{
		Use:   "memory",
		Short: "Committed memory entries",
		RunE: withSession(func(cmd *cobra.Command, s *session.Session) error {
			return renderMemory(cmd.OutOrStdout(), tail(s.Memory.List(), last), jsonOut)
		}),
	}

	metricsCmd = &cobra.Command{
		Use:   "metrics",
		Short: "Per-turn metrics history",
		RunE: withSession(func(cmd *cobra.Command, s *session.Session) error {
			return renderMetrics(cmd.OutOrStdout(), tail(s.Metrics.List(), last), jsonOut)
		}),
	}

	readinessCmd = &cobra.Command{
		Use:   "readiness",
		Short: "Readiness report and component mapping",
		RunE: withSession(func(cmd *cobra.Command, s *session.Session) error {
			return renderReadiness(cmd.OutOrStdout(), s.Snapshot(), jsonOut)
		}),
	}

	hooksCmd = &cobra.Command{
		Use:   "hooks",
		Short: "Training hooks",
		RunE: withSession(func(cmd *cobra.Command, s *session.Session) error {
			return renderHooks(cmd.OutOrStdout(), s.Hooks.List(), jsonOut)
		}),
	}

	provenanceCmd = &cobra.Command{
		Use:   "provenance",
		Short: "Recent provenance rows (sqlite storage only)",
		RunE: withSession(func(cmd *cobra.Command, s *session.Session) error {
			if s.Ledger == nil {
				return errors.New("no provenance ledger: requires a reachable sqlite database")
			}
			n := last
			if n <= 0 {
				n = 20
			}
			rows, err := s.Ledger.Recent(n)
			if err != nil {
				return err
			}
			return renderProvenance(cmd.OutOrStdout(), rows, jsonOut)
		}),
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", envOr("UQRC_CONFIG", "uqrc.yaml"), "path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	rootCmd.PersistentFlags().IntVar(&last, "last", 0, "show only the N newest rows (0 = all)")
	rootCmd.AddCommand(memoryCmd, metricsCmd, readinessCmd, hooksCmd, provenanceCmd)
}

// #region main

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withSession opens the configured session around fn.
func withSession(fn func(*cobra.Command, *session.Session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, logger, err := session.Bootstrap(configPath)
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		defer logger.Sync()
		defer s.Close()
		return fn(cmd, s)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion main
