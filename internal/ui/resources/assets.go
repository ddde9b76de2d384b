// Package resources serves the dashboard's static assets.
package resources

// StaticDirectoryPath locates the static assets relative to the repo root.
const StaticDirectoryPath = "internal/ui/resources/static"
