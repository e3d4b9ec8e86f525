// Package placement provides class placement rules.
//
//   - R4: Transaction Placement - transactions belong to use cases
//   - R6: Repository Placement - repositories live where they are used
package placement
