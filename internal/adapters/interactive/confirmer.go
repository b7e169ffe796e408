package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// ConfirmerAdapter asks for confirmation before broadcasting to live networks
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
	out    io.Writer
	prompt func(label string) error
}

var _ usecase.BroadcastConfirmer = (*ConfirmerAdapter)(nil)

// NewConfirmerAdapter creates a new confirmer adapter
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return &ConfirmerAdapter{config: cfg, out: os.Stderr, prompt: runConfirmPrompt}
}

// ConfirmBroadcast lists the pending entries and asks the user to proceed.
// Non-interactive runs always proceed.
func (c *ConfirmerAdapter) ConfirmBroadcast(ctx context.Context, network *config.Network, entries []*domain.DeploymentEntry) (bool, error) {
	if c.config.NonInteractive {
		return true, nil
	}

	warn := color.New(color.FgYellow, color.Bold)
	fmt.Fprintf(c.out, "%s %s (chain %d)\n", warn.Sprint("About to broadcast to"), network.Name, network.ChainID)
	for _, e := range entries {
		fmt.Fprintf(c.out, "  • %s %s\n", e.DeploymentName, color.New(color.Faint).Sprint(contractLabel(e)))
	}

	err := c.prompt(fmt.Sprintf("Deploy %d contracts to %s", len(entries), network.Name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt):
		return false, domain.ErrBroadcastCancelled
	default:
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
}

func contractLabel(e *domain.DeploymentEntry) string {
	if e.Contract == nil {
		return ""
	}
	if e.Contract.Name == e.DeploymentName && e.Contract.ArtifactPath == "" {
		return ""
	}
	return "(" + strings.TrimPrefix(e.Contract.Identifier(), "src/") + ")"
}

func runConfirmPrompt(label string) error {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := p.Run()
	return err
}
