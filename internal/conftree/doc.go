// Package conftree models FortiOS-style configuration as a tree of blocks.
//
// A configuration is a nesting of "config <block>" sections containing
// "edit <entry>" table rows and "set <key> <value...>" parameters, closed by
// "next" and "end". The package parses device "show" output into a tree,
// renders a tree back to canonical text, and computes the command script
// needed to transform one tree into another.
//
// The commit engine in internal/device depends only on the Tree interface,
// never on the concrete block structure, so alternative configuration models
// can be substituted.
package conftree
