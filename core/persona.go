package core

// Persona is the static definition of an agent role. It is immutable once
// loaded; many sessions may reference the same persona concurrently.
type Persona struct {
	// Name uniquely identifies the persona within a catalog.
	Name string `json:"name" yaml:"name"`
	// Role is a free-text summary of what the persona is for.
	Role string `json:"role" yaml:"role"`
	// Description elaborates on the role for humans and prompts.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Capabilities declares what the persona can do. Order is not significant.
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

// HasCapability reports whether the persona declares the given capability.
func (p Persona) HasCapability(capability string) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
