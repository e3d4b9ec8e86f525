// Package isolation provides dependency isolation rules.
//
// These rules inspect class dependency edges:
//
//   - R1: Config Isolation - only config namespaces may depend on configuration types
//   - R2: Module Boundary - cross-module edges must target the public surface
//   - R3: Use-Case Isolation - triggered use cases never depend on each other
package isolation
