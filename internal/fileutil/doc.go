// Package fileutil copies files into the workspace and publishes finished
// artifacts to the output directory.
package fileutil
