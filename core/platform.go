package core

// Platform is the handle agent variants are queried and constructed with.
// Capability detection itself lives outside this module.
type Platform interface {
	OSName() string
}

// StaticPlatform is a Platform with a fixed OS name.
type StaticPlatform string

// OSName returns the platform's OS name.
func (p StaticPlatform) OSName() string { return string(p) }
