package verification

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// EtherscanAPIKeyEnv is used when a network has no explorer_api_key
const EtherscanAPIKeyEnv = "ETHERSCAN_API_KEY"

type runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ForgeVerifier submits sources to block explorers through forge verify-contract
type ForgeVerifier struct {
	projectRoot string
	log         *slog.Logger
	run         runner
}

var _ usecase.ContractVerifier = (*ForgeVerifier)(nil)

// NewForgeVerifier creates a verifier running forge in the project root
func NewForgeVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeVerifier {
	return &ForgeVerifier{
		projectRoot: cfg.ProjectRoot,
		log:         log.With("component", "verifier"),
		run:         runForge,
	}
}

// Verify verifies a deployment on the network's explorer. On success the
// explorer URL is recorded on the deployment.
func (v *ForgeVerifier) Verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error {
	if network == nil {
		return domain.ErrChainNotFound
	}

	args := v.buildVerifyArgs(deployment, network)
	v.log.Debug("running forge", "args", redact(args))

	output, err := v.run(ctx, v.projectRoot, args...)
	if err := classify(string(output), err); err != nil {
		return err
	}

	deployment.Verification.URL = explorerAddressURL(network, deployment.Address)
	return nil
}

// buildVerifyArgs builds the forge verify-contract args
func (v *ForgeVerifier) buildVerifyArgs(deployment *models.Deployment, network *config.Network) []string {
	constructorArgs := strings.TrimPrefix(deployment.ConstructorArgs, "0x")

	args := []string{
		"verify-contract",
		deployment.Address,
		deployment.Contract(),
		"--chain-id", fmt.Sprintf("%d", network.ChainID),
		"--watch",
	}

	if network.ExplorerURL != "" {
		args = append(args, "--verifier-url", network.ExplorerURL)
	}
	if apiKey := apiKey(network); apiKey != "" {
		args = append(args, "--etherscan-api-key", apiKey)
	}
	if deployment.CompilerVersion != "" {
		args = append(args, "--compiler-version", deployment.CompilerVersion)
	}
	if constructorArgs != "" {
		args = append(args, "--constructor-args", constructorArgs)
	}

	return args
}

func apiKey(network *config.Network) string {
	if network.ExplorerAPIKey != "" {
		return network.ExplorerAPIKey
	}
	return os.Getenv(EtherscanAPIKeyEnv)
}

// classify maps forge output to a verification result
func classify(output string, runErr error) error {
	output = strings.TrimSpace(output)
	if alreadyVerified(output) {
		return nil
	}
	if runErr != nil {
		if output == "" {
			output = runErr.Error()
		}
		return fmt.Errorf("%w: %s", domain.ErrVerificationFailed, output)
	}
	if strings.Contains(output, "Contract successfully verified") || strings.Contains(output, "Pass - Verified") {
		return nil
	}
	return fmt.Errorf("%w: status unclear: %s", domain.ErrVerificationFailed, output)
}

func alreadyVerified(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already verified")
}

// explorerAddressURL turns an explorer API url such as
// https://api-sepolia.etherscan.io/api into a browser link for address.
func explorerAddressURL(network *config.Network, address string) string {
	if network.ExplorerURL == "" {
		return ""
	}
	u, err := url.Parse(network.ExplorerURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := u.Host
	switch {
	case strings.HasPrefix(host, "api-"):
		host = strings.TrimPrefix(host, "api-")
	case strings.HasPrefix(host, "api."):
		host = strings.TrimPrefix(host, "api.")
	}
	return fmt.Sprintf("%s://%s/address/%s#code", u.Scheme, host, address)
}

// redact hides the api key in logged args
func redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--etherscan-api-key" {
			out[i+1] = "***"
		}
	}
	return out
}

func runForge(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
