// Package cleaners wires every resource kind into one registry.
package cleaners

import (
	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/depcache"
	"github.com/yamakage/souji/internal/dockerclean"
	"github.com/yamakage/souji/internal/largefiles"
	"github.com/yamakage/souji/internal/project"
	"github.com/yamakage/souji/internal/syscache"
)

// Default returns the registry of every built-in cleaner. Adding a new
// resource kind is one Register call here.
func Default() *cleaner.Registry {
	reg := cleaner.NewRegistry()

	projectRule := func(rule project.Rule) cleaner.Factory {
		return func(opts cleaner.Options) (cleaner.Cleaner, error) {
			return project.New(rule, opts.Root)
		}
	}
	reg.Register("rust", projectRule(project.Rust))
	reg.Register("node", projectRule(project.Node))
	reg.Register("python", projectRule(project.Python))
	reg.Register("flutter", projectRule(project.Flutter))
	reg.Register("haskell", projectRule(project.Haskell))

	reg.Register("go", func(cleaner.Options) (cleaner.Cleaner, error) {
		return depcache.GoModCache(), nil
	})
	reg.Register("gradle", func(cleaner.Options) (cleaner.Cleaner, error) {
		return depcache.GradleCache(), nil
	})
	reg.Register("xcode", func(cleaner.Options) (cleaner.Cleaner, error) {
		return depcache.XcodeDerivedData(), nil
	})

	reg.Register("docker", func(opts cleaner.Options) (cleaner.Cleaner, error) {
		return dockerclean.New(opts.AllImages, opts.Volumes), nil
	})

	reg.Register("cache", func(opts cleaner.Options) (cleaner.Cleaner, error) {
		return syscache.New(opts.MinSize, opts.SafetyOverrides), nil
	})

	reg.Register("large-files", func(opts cleaner.Options) (cleaner.Cleaner, error) {
		includeFiles := !opts.DirsOnly
		includeDirs := !opts.FilesOnly
		return largefiles.New(opts.Root, opts.MinSize, opts.Extensions, includeFiles, includeDirs)
	})

	return reg
}
