// Package workspace manages the scratch directory a run works in.
//
// A Workspace is an explicit handle opened once per run. Opening it takes an
// advisory lock so two invocations sharing a scratch directory cannot wipe
// each other's files. Reset empties the directory, Stage copies an input
// under a fresh time-based UUID, and Path derives artifact names that share
// the staged file's identifier.
package workspace
