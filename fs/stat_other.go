//go:build !linux && !darwin

package fs

// fillSys is a no-op where the platform record carries no extra times.
func fillSys(_ *Stats, _ any) {}
