// Package core defines the shared language of archlint.
//
// This package contains:
//   - The structural model (Namespace, ClassUnit, Model) built by the extractor
//   - The declaration contract consumed from front-ends (Declaration)
//   - Capability tags and namespace kinds
//   - Rule set configuration (RuleSetConfig) and its validation
//   - Severity and rule metadata
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
