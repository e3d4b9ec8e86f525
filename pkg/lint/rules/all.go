// Package rules registers all architecture rules.
// Import this package to register every rule with the global registry.
package rules

import (
	// Blank imports trigger init() functions that register rules with the global registry.
	_ "github.com/leapstack-labs/archlint/pkg/lint/rules/isolation" // registers R1, R2, R3
	_ "github.com/leapstack-labs/archlint/pkg/lint/rules/naming"    // registers R5
	_ "github.com/leapstack-labs/archlint/pkg/lint/rules/placement" // registers R4, R6
	_ "github.com/leapstack-labs/archlint/pkg/lint/rules/structure" // registers R7, R8
)
