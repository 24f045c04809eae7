// Package workflow orchestrates a processing run: locating rolls, ordering
// frames, synthesizing capture times, and executing rename plans, one roll at
// a time.
package workflow
