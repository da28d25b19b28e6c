package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codelens-dev/codelens/internal/index"
)

// GenerateMermaid renders a network as a Mermaid graph TD diagram. Symbols
// are grouped into a subgraph per owning file (the contains edges become
// nesting); import and call edges become arrows.
func GenerateMermaid(network *index.Network) string {
	// Node → Mermaid ID mapping (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(id string) string {
		if mid, ok := nodeIDs[id]; ok {
			return mid
		}
		mid := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[id] = mid
		return mid
	}

	// Index symbol nodes by owning file, via the contains edges.
	fileNodes := make([]index.Node, 0, len(network.Nodes))
	symbolsByFile := make(map[string][]index.Node)
	symbolOwner := make(map[string]string)
	for _, e := range network.Edges {
		if e.Kind == index.RelationContains {
			symbolOwner[e.Target] = ownerFile(e.Source)
		}
	}
	for _, n := range network.Nodes {
		if n.Kind == index.NodeKindFile {
			fileNodes = append(fileNodes, n)
			continue
		}
		owner := symbolOwner[n.ID]
		symbolsByFile[owner] = append(symbolsByFile[owner], n)
	}
	sort.Slice(fileNodes, func(i, j int) bool { return fileNodes[i].ID < fileNodes[j].ID })

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, f := range fileNodes {
		members := symbolsByFile[f.ID]
		if len(members) == 0 {
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(f.ID), f.Label))
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		// The subgraph carries the file's own id so import and call edges
		// touching the file attach to it rather than to a phantom node.
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.60s\"]\n", getID(f.ID), f.Label))
		for _, m := range members {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(m.ID), m.Label))
		}
		sb.WriteString("  end\n")
	}

	for _, e := range network.Edges {
		switch e.Kind {
		case index.RelationCall:
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(e.Source), getID(e.Target)))
		case index.RelationImport:
			sb.WriteString(fmt.Sprintf("  %s -.-> %s\n", getID(e.Source), getID(e.Target)))
		}
	}

	return sb.String()
}

// ownerFile maps a contains-edge source to the file grouping: symbol ids
// carry their file before the first ":", file ids pass through.
func ownerFile(id string) string {
	if idx := strings.Index(id, ":"); idx != -1 {
		return id[:idx]
	}
	return id
}
