package cmd

import (
	"errors"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/config"
	"github.com/yamakage/souji/internal/engine"
	"github.com/yamakage/souji/internal/syscache"
	"github.com/yamakage/souji/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Scan for one kind of disposable artifact and optionally remove it.

Without -d or -i the command only searches and reports what it found.`,
}

// cleanFlags holds the per-subcommand flag values. Each kind gets its
// own instance so flags never bleed between subcommands.
type cleanFlags struct {
	search      bool
	del         bool
	interactive bool

	path      string
	minSizeGB float64
	safeOnly  bool
	allImages bool
	volumes   bool
	exts      []string
	filesOnly bool
	dirsOnly  bool
}

// mode resolves the tri-mode flags. Search is the default; combining it
// with a deleting mode, or asking for both unattended and confirmed
// deletion, is a contradiction.
func (f *cleanFlags) mode() (engine.Mode, error) {
	if f.del && f.interactive {
		return 0, errors.New("--delete and --interactive cannot be combined")
	}
	if f.search && (f.del || f.interactive) {
		return 0, errors.New("--search cannot be combined with --delete or --interactive")
	}
	switch {
	case f.interactive:
		return engine.ModeInteractive, nil
	case f.del:
		return engine.ModeDelete, nil
	default:
		return engine.ModeSearch, nil
	}
}

// kindSpec describes one clean subcommand.
type kindSpec struct {
	token    string
	short    string
	hasPath  bool
	hasCache bool
	hasLarge bool
	hasScope bool // container-engine scope flags
}

var kinds = []kindSpec{
	{token: "rust", short: "Remove Rust target directories", hasPath: true},
	{token: "node", short: "Remove node_modules directories", hasPath: true},
	{token: "python", short: "Remove Python virtual environments", hasPath: true},
	{token: "flutter", short: "Remove Flutter build output", hasPath: true},
	{token: "haskell", short: "Remove Haskell build output", hasPath: true},
	{token: "go", short: "Remove the Go module cache"},
	{token: "gradle", short: "Remove the Gradle cache"},
	{token: "xcode", short: "Remove Xcode DerivedData"},
	{token: "docker", short: "Remove unused Docker resources", hasScope: true},
	{token: "cache", short: "Remove oversized application caches", hasCache: true},
	{token: "large-files", short: "Remove large files and directories", hasPath: true, hasLarge: true},
}

func init() {
	for _, k := range kinds {
		cleanCmd.AddCommand(newCleanSubcommand(k))
	}
}

func newCleanSubcommand(k kindSpec) *cobra.Command {
	flags := &cleanFlags{}

	sub := &cobra.Command{
		Use:   k.token,
		Short: k.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(k, flags)
		},
	}

	sub.Flags().BoolVarP(&flags.search, "search", "s", false, "Search and report only (default)")
	sub.Flags().BoolVarP(&flags.del, "delete", "d", false, "Delete without prompting")
	sub.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Confirm each item before deleting")

	if k.hasPath {
		sub.Flags().StringVarP(&flags.path, "path", "p", ".", "Search root")
	}
	if k.hasCache {
		sub.Flags().Float64Var(&flags.minSizeGB, "min-size", 0, "Minimum entry size in GB (default 1)")
		sub.Flags().BoolVar(&flags.safeOnly, "safe-only", false, "Act only on entries known to be safe")
	}
	if k.hasLarge {
		sub.Flags().Float64Var(&flags.minSizeGB, "min-size", 1, "Minimum item size in GB")
		sub.Flags().StringSliceVar(&flags.exts, "ext", nil, "Only files with these extensions (e.g. mp4,iso)")
		sub.Flags().BoolVar(&flags.filesOnly, "files-only", false, "Report files only")
		sub.Flags().BoolVar(&flags.dirsOnly, "dirs-only", false, "Report directories only")
	}
	if k.hasScope {
		sub.Flags().BoolVarP(&flags.allImages, "all", "a", false, "Include all images, not just dangling ones")
		sub.Flags().BoolVar(&flags.volumes, "volumes", false, "Include dangling volumes")
	}

	return sub
}

func runClean(k kindSpec, flags *cleanFlags) error {
	mode, err := flags.mode()
	if err != nil {
		return err
	}
	if flags.filesOnly && flags.dirsOnly {
		return errors.New("--files-only and --dirs-only cannot be combined")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := cleaner.Options{
		Root:            flags.path,
		Extensions:      flags.exts,
		FilesOnly:       flags.filesOnly,
		DirsOnly:        flags.dirsOnly,
		AllImages:       flags.allImages,
		Volumes:         flags.volumes,
		SafetyOverrides: cfg.SafetyOverrides(),
	}
	switch {
	case k.hasCache:
		opts.MinSize = cfg.CacheMinSize(syscache.DefaultMinSize)
		if flags.minSizeGB > 0 {
			opts.MinSize = gbToBytes(flags.minSizeGB)
		}
	case k.hasLarge:
		opts.MinSize = gbToBytes(flags.minSizeGB)
	}

	c, err := registry.New(k.token, opts)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	summary, err := engine.Run(c, mode, engine.Options{
		SafeOnly:  flags.safeOnly,
		Confirmer: ui.NewConfirmer(),
		OnScan: func(items []cleaner.Item, warnings []string) {
			ui.PrintScanHeader(os.Stdout, c,
				&cleaner.ScanResult{Items: items, Warnings: warnings})
			ui.PrintItems(os.Stdout, items)
			if mode == engine.ModeDelete && len(items) > 0 {
				bar = progressbar.Default(int64(len(items)), "deleting")
			}
		},
		OnItem: func(item cleaner.Item) {
			if bar != nil {
				_ = bar.Add(1)
			}
		},
	})
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if summary.Found > 0 || mode != engine.ModeSearch {
		ui.PrintSummary(os.Stdout, mode, summary)
	}
	return nil
}

func gbToBytes(gb float64) int64 {
	return int64(gb * float64(1<<30))
}
