package testutil

import (
	"github.com/crewkit-ai/crewkit/core"
)

// PersonaBuilder provides a fluent helper for constructing personas in tests.
// Example:
//
//	p := NewPersonaBuilder("writer").Role("author").Capabilities("draft", "edit").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type PersonaBuilder struct {
	name         string
	role         string
	description  string
	capabilities []string
}

// NewPersonaBuilder creates a builder with default role "assistant".
func NewPersonaBuilder(name string) *PersonaBuilder {
	return &PersonaBuilder{name: name, role: "assistant"}
}

// Role sets the persona role (chainable).
func (b *PersonaBuilder) Role(r string) *PersonaBuilder { b.role = r; return b }

// Description sets the persona description (chainable).
func (b *PersonaBuilder) Description(d string) *PersonaBuilder { b.description = d; return b }

// Capabilities appends capability tags (chainable).
func (b *PersonaBuilder) Capabilities(caps ...string) *PersonaBuilder {
	b.capabilities = append(b.capabilities, caps...)
	return b
}

// Build returns the assembled core.Persona.
func (b *PersonaBuilder) Build() core.Persona {
	return core.Persona{
		Name:         b.name,
		Role:         b.role,
		Description:  b.description,
		Capabilities: b.capabilities,
	}
}
