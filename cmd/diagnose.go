package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/spf13/cobra"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/config"
	"github.com/yamakage/souji/internal/logging"
	"github.com/yamakage/souji/internal/scan"
	"github.com/yamakage/souji/internal/syscache"
	"github.com/yamakage/souji/internal/ui"
)

var diagnoseFlags struct {
	path        string
	thresholdGB float64
	jsonOut     bool
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Scan everything and report what could be reclaimed",
	Long: `Run every cleaner in search mode and report how much space each
kind could free, alongside the disk's current headroom.

Nothing is deleted; use "souji clean <kind>" to act on a finding.`,
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().StringVarP(&diagnoseFlags.path, "path", "p", ".", "Search root for project cleaners")
	diagnoseCmd.Flags().Float64Var(&diagnoseFlags.thresholdGB, "threshold", 0, "Only report kinds with at least this many GB reclaimable")
	diagnoseCmd.Flags().BoolVar(&diagnoseFlags.jsonOut, "json", false, "Output the report as JSON")
}

// kindReport is one cleaner's findings in the diagnose sweep.
type kindReport struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Items    int    `json:"items"`
	Bytes    int64  `json:"bytes"`
	Warnings int    `json:"warnings,omitempty"`
	Error    string `json:"error,omitempty"`
}

// diskReport is the mount headroom for the scanned path.
type diskReport struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

type diagnoseReport struct {
	Disk       *diskReport  `json:"disk,omitempty"`
	Kinds      []kindReport `json:"kinds"`
	TotalBytes int64        `json:"total_bytes"`
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	log := logging.New("diagnose")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := cleaner.Options{
		Root:            diagnoseFlags.path,
		MinSize:         cfg.CacheMinSize(syscache.DefaultMinSize),
		SafetyOverrides: cfg.SafetyOverrides(),
	}

	report := diagnoseReport{}
	for _, token := range registry.Tokens() {
		c, err := registry.New(token, opts)
		if err != nil {
			return err
		}

		kr := kindReport{Kind: token, Name: c.Name()}
		res, err := c.Scan()
		if err != nil {
			// One unreachable backend should not sink the sweep.
			log.Debug().Str("kind", token).Err(err).Msg("scan failed")
			kr.Error = err.Error()
		} else {
			kr.Items = len(res.Items)
			kr.Bytes = res.TotalBytes()
			kr.Warnings = len(res.Warnings)
			report.TotalBytes += kr.Bytes
		}
		report.Kinds = append(report.Kinds, kr)
	}

	sort.SliceStable(report.Kinds, func(i, j int) bool {
		return report.Kinds[i].Bytes > report.Kinds[j].Bytes
	})

	if usage, err := disk.Usage(diagnoseFlags.path); err != nil {
		log.Debug().Err(err).Msg("disk usage unavailable")
	} else {
		report.Disk = &diskReport{
			Path:        usage.Path,
			TotalBytes:  usage.Total,
			FreeBytes:   usage.Free,
			UsedPercent: usage.UsedPercent,
		}
	}

	if diagnoseFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printDiagnose(&report, gbToBytes(diagnoseFlags.thresholdGB))
	return nil
}

func printDiagnose(report *diagnoseReport, threshold int64) {
	if report.Disk != nil {
		fmt.Printf("💾 %s: %s free of %s (%.1f%% used)\n\n",
			report.Disk.Path,
			scan.FormatSize(int64(report.Disk.FreeBytes)),
			scan.FormatSize(int64(report.Disk.TotalBytes)),
			report.Disk.UsedPercent)
	}

	shown := 0
	for _, kr := range report.Kinds {
		if kr.Error != "" {
			ui.PrintDiagnoseError(os.Stdout, kr.Name, kr.Error)
			continue
		}
		if kr.Items == 0 || kr.Bytes < threshold {
			continue
		}
		ui.PrintDiagnoseLine(os.Stdout, kr.Name, kr.Kind, kr.Items, kr.Bytes, kr.Warnings)
		shown++
	}

	fmt.Println()
	if shown == 0 {
		fmt.Println("✨ nothing to clean")
		return
	}
	fmt.Printf("ℹ %s reclaimable in total; run \"souji clean <kind>\" to act\n",
		scan.FormatSize(report.TotalBytes))
}
