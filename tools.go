//go:build tools

package tools

// mockery v3 runs as an installed binary, so no blank import is needed.
// Run mockery from the repository root to regenerate the mocks listed in
// .mockery.yaml.
