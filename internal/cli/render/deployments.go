package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/models"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// DeploymentsRenderer renders registry records as a table
type DeploymentsRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render renders the deployment list
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	scope := "local"
	if result.Global {
		scope = "global"
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintf(r.out, "No %s deployments found for tag %s on chain %d\n", scope, result.Tag, result.ChainID)
		return nil
	}

	fmt.Fprintf(r.out, "%s %s\n\n",
		chainHeader.Sprintf(" chain %d ", result.ChainID),
		headerStyle.Sprintf("%s / %s", scope, result.Tag))

	data := TableData{}
	for _, d := range result.Deployments {
		data = append(data, deploymentRow(d))
	}
	fmt.Fprintln(r.out, renderTable(data))
	return nil
}

// RenderJSON writes the records as an indented JSON array
func (r *DeploymentsRenderer) RenderJSON(result *usecase.DeploymentListResult) error {
	data, err := json.MarshalIndent(records(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}

// RenderYAML writes the records as a YAML sequence
func (r *DeploymentsRenderer) RenderYAML(result *usecase.DeploymentListResult) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(records(result)); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func records(result *usecase.DeploymentListResult) []*models.Deployment {
	if result.Deployments == nil {
		return []*models.Deployment{}
	}
	return result.Deployments
}

func deploymentRow(d *models.Deployment) []string {
	contract := ""
	if d.ContractName != "" && d.ContractName != d.Name {
		contract = tagsStyle.Sprintf("(%s)", d.ContractName)
	}

	created := ""
	if !d.CreatedAt.IsZero() {
		created = timestampStyle.Sprint(d.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return []string{
		d.Name + " " + contract,
		addressStyle.Sprint(d.Address),
		verificationStatus(d.Verification),
		created,
	}
}

func verificationStatus(v models.VerificationInfo) string {
	switch v.Status {
	case models.VerificationStatusVerified:
		return verifiedStyle.Sprint("✔︎ verified")
	case models.VerificationStatusFailed:
		return notVerifiedStyle.Sprint("✗ failed")
	default:
		return pendingStyle.Sprint("⏳ unverified")
	}
}
