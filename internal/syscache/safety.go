package syscache

import "github.com/yamakage/souji/internal/cleaner"

// defaultSafetyTable maps known cache-entry identifiers to tiers. It is
// data, not logic: the [safety] section of the config file extends or
// shadows it without a code change. Identifiers match exactly; anything
// unlisted is Unknown.
//
// Safe entries are pure re-downloadable or regenerable caches.
// NeedsReview entries are recognized but deleting them can drop session
// or sync state.
var defaultSafetyTable = map[string]cleaner.SafetyTier{
	// Package and build tool caches, re-fetched on demand.
	"Homebrew":  cleaner.Safe,
	"pip":       cleaner.Safe,
	"yarn":      cleaner.Safe,
	"npm":       cleaner.Safe,
	"pnpm":      cleaner.Safe,
	"CocoaPods": cleaner.Safe,
	"go-build":  cleaner.Safe,

	// Application caches known to rebuild cleanly.
	"com.apple.metal":      cleaner.Safe,
	"com.spotify.client":   cleaner.Safe,
	"Google":               cleaner.Safe,
	"Firefox":              cleaner.Safe,
	"Mozilla":              cleaner.Safe,
	"com.microsoft.VSCode": cleaner.Safe,
	"JetBrains":            cleaner.Safe,
	"Slack":                cleaner.Safe,
	"Discord":              cleaner.Safe,
	"com.docker.docker":    cleaner.Safe,

	// Recognized, but deletion can lose local state or force expensive
	// resyncs.
	"com.apple.bird":   cleaner.NeedsReview, // iCloud sync staging
	"com.apple.Safari": cleaner.NeedsReview,
	"com.apple.mail":   cleaner.NeedsReview,
	"CloudKit":         cleaner.NeedsReview,
	"com.apple.Music":  cleaner.NeedsReview,
}
