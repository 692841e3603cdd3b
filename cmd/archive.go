package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yamakage/souji/internal/archive"
	"github.com/yamakage/souji/internal/config"
	"github.com/yamakage/souji/internal/largefiles"
	"github.com/yamakage/souji/internal/logging"
	"github.com/yamakage/souji/internal/scan"
	"github.com/yamakage/souji/internal/ui"
)

var archiveFlags struct {
	path        string
	minSizeGB   float64
	exts        []string
	deleteAfter bool
	dryRun      bool
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move large items into remote storage",
	Long: `Find large files and directories, pack each one into a compressed
tarball, and upload it to the configured S3-compatible bucket.

Originals stay in place unless --delete-after is given. Every upload is
recorded in a local index; see "souji archives" and "souji restore".`,
	RunE: runArchive,
}

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List everything archived from this machine",
	RunE:  runArchives,
}

var restoreFlags struct {
	id string
	to string
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Bring an archived item back",
	Long:  "Download an archive by id and unpack it into a local directory.",
	RunE:  runRestore,
}

func init() {
	archiveCmd.Flags().StringVarP(&archiveFlags.path, "path", "p", ".", "Search root")
	archiveCmd.Flags().Float64Var(&archiveFlags.minSizeGB, "min-size", 1, "Minimum item size in GB")
	archiveCmd.Flags().StringSliceVar(&archiveFlags.exts, "ext", nil, "Only files with these extensions (e.g. mp4,iso)")
	archiveCmd.Flags().BoolVar(&archiveFlags.deleteAfter, "delete-after", false, "Delete originals after a successful upload")
	archiveCmd.Flags().BoolVar(&archiveFlags.dryRun, "dry-run", false, "List what would be archived and stop")

	restoreCmd.Flags().StringVar(&restoreFlags.id, "id", "", "Archive id to restore (see \"souji archives\")")
	restoreCmd.Flags().StringVar(&restoreFlags.to, "to", ".", "Directory to unpack into")
	_ = restoreCmd.MarkFlagRequired("id")
}

func runArchive(cmd *cobra.Command, args []string) error {
	log := logging.New("archive")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lf, err := largefiles.New(archiveFlags.path, gbToBytes(archiveFlags.minSizeGB),
		archiveFlags.exts, true, true)
	if err != nil {
		return err
	}
	res, err := lf.Scan()
	if err != nil {
		return err
	}

	ui.PrintScanHeader(os.Stdout, lf, res)
	ui.PrintItems(os.Stdout, res.Items)
	if len(res.Items) == 0 || archiveFlags.dryRun {
		return nil
	}

	client, err := archive.NewClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	idx, err := archive.LoadIndex()
	if err != nil {
		return err
	}

	var archived, failed int
	for _, item := range res.Items {
		key := fmt.Sprintf("souji/%s-%d.tar.gz", filepath.Base(item.Path), time.Now().Unix())
		if err := archiveOne(cmd, client, idx, item.Path, key); err != nil {
			log.Error().Str("path", item.Path).Err(err).Msg("archive failed")
			failed++
			continue
		}
		archived++

		if archiveFlags.deleteAfter {
			if err := lf.Remove(item); err != nil {
				log.Error().Str("path", item.Path).Err(err).Msg("delete after upload failed")
			}
		}
	}

	if err := idx.Save(); err != nil {
		return err
	}

	fmt.Printf("\n✅ archived %d of %d item(s)\n", archived, len(res.Items))
	if failed > 0 {
		return fmt.Errorf("%d item(s) failed to archive", failed)
	}
	return nil
}

// archiveOne packs one item into a temporary tarball, uploads it, and
// records it in the index. The tarball is always cleaned up.
func archiveOne(cmd *cobra.Command, client *archive.Client, idx *archive.Index, src, key string) error {
	tmp, err := os.CreateTemp("", "souji-*.tar.gz")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := archive.Pack(src, tmpPath); err != nil {
		return err
	}
	stat, err := os.Stat(tmpPath)
	if err != nil {
		return err
	}
	if err := client.Upload(cmd.Context(), key, tmpPath); err != nil {
		return err
	}

	entry := idx.Add(src, key, stat.Size())
	fmt.Printf("  ⬆ %s → %s (id %s)\n", src, key, entry.ID)
	return nil
}

func runArchives(cmd *cobra.Command, args []string) error {
	idx, err := archive.LoadIndex()
	if err != nil {
		return err
	}
	if len(idx.Entries) == 0 {
		fmt.Println("no archives yet")
		return nil
	}
	for _, e := range idx.Entries {
		fmt.Printf("  %s  %s  %-10s  %s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"),
			scan.FormatSize(e.Size), e.Source)
	}
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	idx, err := archive.LoadIndex()
	if err != nil {
		return err
	}
	entry, ok := idx.Find(restoreFlags.id)
	if !ok {
		return errors.New("no archive with that id; run \"souji archives\"")
	}

	client, err := archive.NewClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "souji-restore-*.tar.gz")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := client.Download(cmd.Context(), entry.Key, tmpPath); err != nil {
		return err
	}
	if err := archive.Unpack(tmpPath, restoreFlags.to); err != nil {
		return err
	}

	fmt.Printf("✅ restored %s into %s\n", entry.Source, restoreFlags.to)
	return nil
}
