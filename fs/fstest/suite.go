// Package fstest provides a conformance test suite for validating that a
// platform filesystem, seen through the fs shim, honors the contract Git
// libraries rely on: stable error codes for missing and existing paths,
// mkdir recursion semantics, metadata timestamps and the callback calling
// convention.
//
// The suite validates the shim contract, not backend-specific behavior. It
// is run against every platform the module ships constructors for.
//
// Example usage:
//
//	func TestMyPlatform(t *testing.T) {
//	    fstest.TestSuite(t, func() *fs.FS {
//	        return fs.New(myplatform.New())
//	    })
//	}
package fstest

import (
	"slices"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
)

// TestSuite runs all conformance tests against a filesystem.
// The newFS function should return a fresh, empty filesystem for each test.
func TestSuite(t *testing.T, newFS func() *fs.FS) {
	TestSuiteWithSkip(t, newFS, nil)
}

// TestSuiteWithSkip runs conformance tests with optional test skipping.
// The skipTests parameter lists group names to skip (e.g., "Metadata").
func TestSuiteWithSkip(t *testing.T, newFS func() *fs.FS, skipTests []string) {
	groups := []struct {
		name string
		run  func(*testing.T, *fs.FS)
	}{
		{"Missing", TestMissingPaths},
		{"Read", TestReadFS},
		{"Write", TestWriteFS},
		{"Mkdir", TestMkdir},
		{"Rmdir", TestRmdir},
		{"Metadata", TestMetadata},
		{"Symlink", TestSymlink},
		{"Callbacks", TestCallbacks},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if slices.Contains(skipTests, g.name) {
				t.Skip("Skipped by platform configuration")
				return
			}
			g.run(t, newFS())
		})
	}
}
