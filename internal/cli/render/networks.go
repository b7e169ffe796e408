package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/yieldbox-deploy/internal/domain/config"
	"github.com/trebuchet-org/yieldbox-deploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.NetworksResult] = (*NetworksRenderer)(nil)

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.NetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in ybdeploy.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	data := TableData{}
	for _, info := range result.Networks {
		marker := "  "
		if info.Name == result.CurrentNetwork {
			marker = "▸ "
		}

		if info.Error != nil {
			data = append(data, []string{
				marker + "❌ " + info.Name,
				notVerifiedStyle.Sprintf("Error: %v", info.Error),
			})
			continue
		}

		n := info.Network
		data = append(data, []string{
			marker + "✅ " + info.Name,
			fmt.Sprintf("Chain ID: %d", n.ChainID),
			chainTitle(n.ChainName),
			tagsStyle.Sprint(strings.Join(n.Tags, ",")),
			wethColumn(n),
		})
	}
	fmt.Fprintln(r.out, renderTable(data))
	return nil
}

func wethColumn(n *config.Network) string {
	switch {
	case n.WETH != "":
		return addressStyle.Sprint("WETH override " + n.WETH)
	case n.IsTestnet():
		return pendingStyle.Sprint("WETH mock on deploy")
	case n.KnownWETH != "":
		return timestampStyle.Sprint("WETHMock entry required (canonical " + n.KnownWETH + ")")
	default:
		return notVerifiedStyle.Sprint("WETHMock entry required")
	}
}
