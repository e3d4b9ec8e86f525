// Package structure provides module structure rules.
//
//   - R7: Cycle Freedom - the module condensation graph is acyclic
//   - R8: Reserved Namespace - reserved names only where their kind allows
package structure
