// Package elements implements the differential value algebra that system
// configuration state is built from.
//
// Every value is either a full element (a complete configuration value) or a
// diff element (a compact description of the transformation from one full
// element to another). Four kinds exist: Atom (a string), Set (an unordered
// collection), Map (a string-keyed collection) and List (an ordered sequence
// of Atoms). Containers recurse into their contained elements for
// diff/apply/combine, so shapes like Set-of-Map or Map-of-Set compose freely.
//
// All operations are pure: inputs are never mutated and results never alias
// caller-owned containers.
package elements
