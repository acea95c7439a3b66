package engine

import "strings"

// Narrative accumulates the sectioned clinical text produced by Interpret:
// a headline followed by titled sections (formula used, reference ranges,
// limitations). Rendering is deterministic; sections appear in the order
// they were added.
type Narrative struct {
	b strings.Builder
}

// Headline writes the opening line of the narrative.
func (n *Narrative) Headline(text string) {
	n.b.WriteString(text)
	n.b.WriteString("\n")
}

// Section writes a titled block. Empty lines are skipped so advisory fields
// that selected no rules do not leave blank bullets.
func (n *Narrative) Section(title string, lines ...string) {
	wrote := false
	for _, line := range lines {
		if line == "" {
			continue
		}
		if !wrote {
			n.b.WriteString("\n")
			n.b.WriteString(title)
			n.b.WriteString(":\n")
			wrote = true
		}
		for _, sub := range strings.Split(line, "\n") {
			if sub == "" {
				continue
			}
			n.b.WriteString("  - ")
			n.b.WriteString(sub)
			n.b.WriteString("\n")
		}
	}
}

func (n *Narrative) String() string {
	return n.b.String()
}
