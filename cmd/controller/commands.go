package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
)

// #region parsing

var errQuit = errors.New("quit")

// parseHook reads "<message> => <reply> [| <incur sentence>]".
func parseHook(arg string) (hooks.Hook, error) {
	message, rest, ok := strings.Cut(arg, "=>")
	if !ok {
		return hooks.Hook{}, errors.New("usage: /hook <message> => <reply> [| <incur sentence>]")
	}
	reply, incur, _ := strings.Cut(rest, "|")
	h := hooks.Hook{
		Message:       strings.TrimSpace(message),
		Reply:         strings.TrimSpace(reply),
		IncurSentence: strings.TrimSpace(incur),
	}
	if h.Reply == "" {
		return hooks.Hook{}, errors.New("hook reply is empty")
	}
	return h, nil
}

// parseTrain reads "<target> [| <paraphrase> [| <evidence>]]".
func parseTrain(arg string) orchestrator.TrainRequest {
	parts := strings.SplitN(arg, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return orchestrator.TrainRequest{
		Target:     strings.TrimSpace(parts[0]),
		Paraphrase: strings.TrimSpace(parts[1]),
		Evidence:   strings.TrimSpace(parts[2]),
	}
}

// parseFeedback reads a rating in [0, 1].
func parseFeedback(arg string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return 0, fmt.Errorf("feedback must be a number: %w", err)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("feedback must be in [0, 1], got %v", v)
	}
	return v, nil
}

// splitCommand separates "/name rest of line".
func splitCommand(line string) (string, string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}

// #endregion parsing
