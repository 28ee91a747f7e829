// Package chain manages prompt chains: hand-authored ordered sequences
// of prompt references meant to be used in succession. Chains are
// advisory only; a reference to a missing prompt is a warning, never an
// error.
package chain

// Chain is a named ordered sequence of prompt ids.
type Chain struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Prompts     []string `yaml:"prompts" json:"prompts"`
}

// builtinChains are the default workflows shipped with the tool, used
// when a library has no chains.yaml of its own.
var builtinChains = []Chain{
	{
		Name:        "idea-to-design",
		Description: "Take a raw idea through analysis, requirements, and high-level design",
		Prompts:     []string{"IDEA_ANALYSIS", "PRD", "HLD"},
	},
	{
		Name:        "product-launch",
		Description: "Validate a business idea and prepare it for market",
		Prompts:     []string{"IDEA_ANALYSIS", "MARKET_RESEARCH", "BUSINESS_PLAN"},
	},
	{
		Name:        "technical-review",
		Description: "Review an existing design with a critical engineering eye",
		Prompts:     []string{"AI_CTO", "HLD"},
	},
}

// Builtin returns a copy of the built-in default chains.
func Builtin() []Chain {
	chains := make([]Chain, len(builtinChains))
	copy(chains, builtinChains)
	return chains
}
