package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// DeployRenderer renders the outcome of a YieldBox deployment
type DeployRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.DeployYieldBoxResult] = (*DeployRenderer)(nil)

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render renders the deployment summary
func (r *DeployRenderer) Render(result *usecase.DeployYieldBoxResult) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("YieldBox deployed to %s (chain %d, tag %s)",
		result.Network.Name, result.Network.ChainID, result.Tag)))
	fmt.Fprintln(r.out)

	if result.WETH != nil {
		fmt.Fprintf(r.out, "%s %s %s\n\n",
			headerStyle.Sprint("WETH"),
			addressStyle.Sprint(result.WETH.Address.Hex()),
			timestampStyle.Sprintf("(%s)", wethSourceLabel(result.WETH.Source)))
	}

	data := TableData{}
	for _, d := range result.Deployments {
		row := []string{headerStyle.Sprint(d.Name), addressStyle.Sprint(d.Address)}
		if result.Verified {
			row = append(row, verificationStatus(d.Verification))
		}
		data = append(data, row)
	}
	if len(data) > 0 {
		fmt.Fprintln(r.out, renderTable(data))
	}

	if !result.Verified {
		msg := "Verification skipped"
		if result.SkipReason != "" {
			msg += " (" + result.SkipReason + ")"
		}
		fmt.Fprintln(r.out, FormatWarning(msg))
	}
	return nil
}

func wethSourceLabel(source usecase.WETHSource) string {
	switch source {
	case usecase.WETHSourceGlobal:
		return "global registry"
	case usecase.WETHSourceLocal:
		return "local registry"
	case usecase.WETHSourceConfig:
		return "weth override"
	case usecase.WETHSourceMock:
		return "mock deployed"
	default:
		return string(source)
	}
}
