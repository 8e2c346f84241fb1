//go:build darwin

// Package darwin backs the platform interfaces on macOS using the
// CoreGraphics and Accessibility frameworks. Everything except the launcher
// requires CGo; with CGo disabled the package compiles as a no-op stub and
// no provider is registered.
package darwin
