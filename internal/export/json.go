package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/codelens-dev/codelens/internal/index"
)

// NetworkExport is the top-level JSON export structure consumed by
// visualization frontends.
type NetworkExport struct {
	ExportedAt string               `json:"exportedAt"`
	Nodes      []index.Node         `json:"nodes"`
	Edges      []index.ResolvedEdge `json:"edges"`
}

// WriteNetworkJSON serializes a network to w as indented JSON.
func WriteNetworkJSON(w io.Writer, network *index.Network) error {
	out := NetworkExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Nodes:      network.Nodes,
		Edges:      network.Edges,
	}
	if out.Nodes == nil {
		out.Nodes = []index.Node{}
	}
	if out.Edges == nil {
		out.Edges = []index.ResolvedEdge{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
