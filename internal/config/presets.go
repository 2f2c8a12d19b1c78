package config

import (
	"errors"
	"sort"

	"github.com/san-kum/particlefield/internal/field"
)

var ErrUnknownAgent = errors.New("config: unknown agent")

// Agent is a research assistant persona and the background it uses.
type Agent struct {
	Name      string
	Title     string
	Tagline   string
	Mode      field.Mode
	Primary   string
	Secondary string
}

var Agents = map[string]*Agent{
	"omics": {
		Name: "omics", Title: "Omics", Tagline: "Your genomic journey begins here.",
		Mode: field.ModeDNA, Primary: "#00758aff", Secondary: "#0844b2ff",
	},
	"chemist": {
		Name: "chemist", Title: "Chemist", Tagline: "Molecular discoveries at your fingertips.",
		Mode: field.ModeMolecules, Primary: "#8B5CF6", Secondary: "#7C3AED",
	},
	"gene-analyst": {
		Name: "gene-analyst", Title: "Gene Analyst", Tagline: "Advanced genetic analysis made simple.",
		Mode: field.ModeNetwork, Primary: "#10B981", Secondary: "#059669",
	},
	"literature-reviewer": {
		Name: "literature-reviewer", Title: "Literature Reviewer", Tagline: "Comprehensive research insights at your fingertips.",
		Mode: field.ModeNetwork, Primary: "#8B5CF6", Secondary: "#7C3AED",
	},
}

func GetPreset(name string) *Agent {
	a, ok := Agents[name]
	if !ok {
		return nil
	}
	return a
}

// ListPresets returns the agent names in a stable order.
func ListPresets() []string {
	names := make([]string, 0, len(Agents))
	for name := range Agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Palette returns the agent's two colours.
func (a *Agent) Palette() field.Palette {
	return field.MustPalette(a.Primary, a.Secondary)
}
