// package tasks implements the weekly aggregation, recommendation, and
// playlist synchronization operations.
//
// The core abstraction is Engine, which composes the repositories with
// the external catalog and playlist collaborators. Long-running
// operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks
