// Package persona contains the persona catalog: the directory of named role
// definitions the orchestrator resolves sessions against. The Persona type
// itself resides in the core package; this package holds the catalog
// container and the YAML file loader used at wiring time.
package persona
