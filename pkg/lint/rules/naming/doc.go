// Package naming provides naming convention rules.
//
//   - R5: Naming Conformance - role suffixes, facade placement
package naming
