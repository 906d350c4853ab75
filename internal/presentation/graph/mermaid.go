package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wheelsim/pkg/domain"
)

// GraphOverlay highlights runtime data on the diagram.
type GraphOverlay struct {
	Current domain.StateID
}

// GenerateMermaid produces a Mermaid state diagram from the protocol rules.
// Transient states are drawn as choice points.
func GenerateMermaid(rules []domain.Rule, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    [*] --> %s\n", domain.StateIdle)

	seen := make(map[domain.StateID]bool)
	for _, r := range rules {
		for _, id := range []domain.StateID{r.From, r.To} {
			if !seen[id] && !id.Resting() {
				seen[id] = true
				fmt.Fprintf(&sb, "    state %s <<choice>>\n", id)
			}
		}
	}

	for _, r := range rules {
		fmt.Fprintf(&sb, "    %s --> %s : %s\n", r.From, r.To, label(r))
	}

	if overlay != nil && overlay.Current != "" {
		sb.WriteString("\n    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")
		fmt.Fprintf(&sb, "    class %s current\n", overlay.Current)
	}
	return sb.String()
}

// label keeps Mermaid's transition text free of characters it treats as syntax.
func label(r domain.Rule) string {
	text := r.Trigger
	if r.Effect != "none" {
		text += " / " + r.Effect
	}
	text = strings.ReplaceAll(text, `"`, "'")
	text = strings.ReplaceAll(text, ":", "=")
	return strings.NewReplacer("{", "(", "}", ")").Replace(text)
}
