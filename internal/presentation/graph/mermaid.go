package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stochclock/pkg/chain"
	"github.com/aretw0/stochclock/pkg/domain"
)

// Overlay contains live run data to visualize on the diagram.
type Overlay struct {
	Visited []domain.State
	Current *domain.State
}

var fills = map[domain.ColorTag]string{
	domain.ColorWhite: "#f9fafb",
	domain.ColorRed:   "#fecaca",
	domain.ColorGreen: "#bbf7d0",
	domain.ColorBlue:  "#bfdbfe",
}

// GenerateMermaid produces a Mermaid flowchart of the chain.
// Every non-zero transition becomes an edge labelled with its weight over the
// normalizer. The tick state is drawn as a circle, the colour states as
// rectangles filled with their colour. Overlay styles mark visited states
// and the current one.
func GenerateMermaid(m *chain.Matrix, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	w := m.Weights()
	for i := 0; i < domain.NumStates; i++ {
		s := domain.State(i)
		opener, closer := "[", "]"
		if s.AudioCue() {
			opener, closer = "((", "))" // Circle
		}
		fmt.Fprintf(&sb, "    %s%s\"%d %s\"%s\n", nodeID(s), opener, i, s.Color(), closer)
	}

	// Transitions
	for i := 0; i < domain.NumStates; i++ {
		for j := 0; j < domain.NumStates; j++ {
			if w[i][j] == 0 {
				continue
			}
			fmt.Fprintf(&sb, "    %s -- \"%g/%g\" --> %s\n", nodeID(domain.State(i)), w[i][j], m.Normalizer(), nodeID(domain.State(j)))
		}
	}

	sb.WriteString("\n")
	for i := 0; i < domain.NumStates; i++ {
		s := domain.State(i)
		fmt.Fprintf(&sb, "    style %s fill:%s,color:#000\n", nodeID(s), fills[s.Color()])
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited stroke:#01579b,stroke-width:2px;\n")
		sb.WriteString("    classDef current stroke:#fbc02d,stroke-width:4px;\n")

		seen := make(map[domain.State]bool)
		for _, s := range overlay.Visited {
			if s.Valid() && !seen[s] {
				seen[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(s))
			}
		}
		if overlay.Current != nil && overlay.Current.Valid() {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(*overlay.Current))
		}
	}

	return sb.String()
}

// OverlayFromVisits marks every state with at least one visit.
func OverlayFromVisits(v domain.Visits, current *domain.State) *Overlay {
	o := &Overlay{Current: current}
	for i, c := range v.Counts {
		if c > 0 {
			o.Visited = append(o.Visited, domain.State(i))
		}
	}
	return o
}

func nodeID(s domain.State) string {
	return fmt.Sprintf("s%d", int(s))
}
