package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"github.com/danielpatrickdp/uqrc-engine/internal/session"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath  string
	historyFile string

	rootCmd = &cobra.Command{
		Use:   "controller",
		Short: "Interactive UQRC session",
		Long:  `Runs one engine session over a readline prompt. Plain lines are turns; lines starting with / are commands.`,
		RunE:  run,
	}

	outputColor = color.New(color.FgHiGreen, color.Bold)
	lockedColor = color.New(color.FgHiCyan)
	forcedColor = color.New(color.FgHiYellow)
	infoColor   = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgHiRed)
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", envOr("UQRC_CONFIG", "uqrc.yaml"), "path to config file")
	rootCmd.Flags().StringVar(&historyFile, "history", "", "readline history file")
}

// #region main
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	sess, logger, err := session.Bootstrap(configPath)
	if err != nil {
		return err
	}
	defer sess.Close()
	defer logger.Sync()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32muqrc>\033[0m ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	sessionID := uuid.New().String()
	logger.Info("session started",
		zap.String("session", sessionID),
		zap.Int("step", sess.State.Step),
		zap.Int("dimension", sess.State.Dimension()))

	out := rl.Stdout()
	fmt.Fprintf(out, "UQRC controller ready. session=%s step=%d\n", sessionID, sess.State.Step)
	fmt.Fprintln(out, "Type a message, or /help for commands.")

	warned := false
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if err := handleCommand(out, sess, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				errorColor.Fprintf(out, "Error: %v\n", err)
			}
			continue
		}

		printTurn(out, sess.Turn(line, nil))
		if !warned && sess.PersistenceLost() {
			forcedColor.Fprintln(out, "persistence unavailable, this session is memory-only")
			warned = true
		}
	}
}

// #endregion main

// #region commands
func handleCommand(out io.Writer, sess *session.Session, line string) error {
	name, arg := splitCommand(line)
	switch name {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/h":
		fmt.Fprintln(out, "  <text>                               run a turn")
		fmt.Fprintln(out, "  /hook <msg> => <reply> [| <incur>]   add a training hook")
		fmt.Fprintln(out, "  /hooks                               list training hooks")
		fmt.Fprintln(out, "  /train <target> [| para [| evid]]    run a training step")
		fmt.Fprintln(out, "  /feedback <0..1>                     rate the last committed reply")
		fmt.Fprintln(out, "  /readiness                           readiness report")
		fmt.Fprintln(out, "  /quit")

	case "/readiness":
		r := sess.Readiness()
		c := outputColor
		if !r.Passed {
			c = forcedColor
		}
		c.Fprintln(out, r.Reason)
		for _, m := range r.Metrics {
			fmt.Fprintf(out, "  %-20s %8.4f  pass=%v\n", m.Name, m.Value, m.Pass)
		}
		for _, n := range r.Notes {
			infoColor.Fprintf(out, "  - %s\n", n)
		}

	case "/hooks":
		list := sess.Hooks.List()
		if len(list) == 0 {
			fmt.Fprintln(out, "no hooks")
		}
		for i, h := range list {
			fmt.Fprintf(out, "  %d. %q => %q", i+1, h.Message, h.Reply)
			if h.IncurSentence != "" {
				fmt.Fprintf(out, " | incur %q", h.IncurSentence)
			}
			fmt.Fprintln(out)
		}

	case "/hook":
		h, err := parseHook(arg)
		if err != nil {
			return err
		}
		if err := sess.AddHook(h); err != nil {
			return err
		}
		infoColor.Fprintf(out, "hook added (%d total)\n", sess.HookCount())

	case "/train":
		res := sess.Train(parseTrain(arg))
		b := res.Breakdown
		fmt.Fprintf(out, "loss=%.4f task=%.4f memory=%.4f creativity=%.4f\n", b.Total, b.Task, b.Memory, b.Creativity)
		infoColor.Fprintf(out, "nu %.4f -> %.4f  beta %.4f -> %.4f\n", res.Before.Nu, res.After.Nu, res.Before.Beta, res.After.Beta)

	case "/feedback":
		v, err := parseFeedback(arg)
		if err != nil {
			return err
		}
		if err := sess.Feedback(v); err != nil {
			return err
		}
		infoColor.Fprintln(out, "feedback recorded")

	default:
		return fmt.Errorf("unknown command %s (try /help)", name)
	}
	return nil
}

func printTurn(out io.Writer, res orchestrator.TurnResult) {
	fmt.Fprintln(out)
	outputColor.Fprintln(out, res.Output)
	fmt.Fprintln(out)

	status := fmt.Sprintf("[%s] step=%d status=%s score=%.2f holds=%d trigger=%s decision=%s distance=%.4f gate=%.4f",
		shortID(res.TurnID), res.State.Step, res.Closure.Status, res.Closure.Score, res.HoldSteps,
		res.Trigger, res.Decision, res.AttractorDistance, res.Diagnostics.EntropyGate)
	switch {
	case res.Locked():
		lockedColor.Fprintln(out, status)
	case res.Closure.Forced:
		forcedColor.Fprintln(out, status+" forced")
	default:
		infoColor.Fprintln(out, status)
	}
}

// #endregion commands

// #region helpers
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
