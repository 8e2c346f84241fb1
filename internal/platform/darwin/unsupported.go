//go:build !darwin

// On other platforms this package compiles to nothing; platform.NewProvider
// reports ErrUnsupported because no backend registered.
package darwin
