package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccpack/ccpack/internal/archive2"
	"github.com/ccpack/ccpack/internal/ba2"
)

func checkCmd(opts *cliOptions) *cobra.Command {
	var deep bool

	cmd := &cobra.Command{
		Use:   "check [archive...]",
		Short: "Validate BA2 archive headers",
		Long: `check validates the binary header of each named BA2 archive. With no
arguments, every .ba2 file in <game-dir>/Data is checked. With --deep,
each archive is additionally listed through the Archive2 tool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				var err error
				paths, err = dataArchives(opts.gameDir)
				if err != nil {
					return err
				}
			}
			if len(paths) == 0 {
				return fmt.Errorf("no .ba2 files found under %s", filepath.Join(opts.gameDir, "Data"))
			}

			var lister ba2.Lister
			if deep {
				toolPath := opts.toolPath
				if toolPath == "" {
					toolPath = filepath.Join(opts.gameDir, "Tools", "Archive2", "Archive2.exe")
				}
				lister = archive2.NewRunner(toolPath)
			}

			failed := 0
			for _, path := range paths {
				res := ba2.Check(cmd.Context(), path, lister)
				if res.OK {
					fmt.Fprintf(os.Stdout, "OK    %s (%s)\n", filepath.Base(path), res.Detail)
					continue
				}
				failed++
				fmt.Fprintf(os.Stderr, "FAIL  %s: %s\n", filepath.Base(path), res.Detail)
			}

			if failed > 0 {
				fmt.Fprintf(os.Stderr, "%d of %d archives failed validation\n", failed, len(paths))
				return &exitError{code: 1}
			}
			if !opts.quiet {
				fmt.Fprintf(os.Stdout, "%d archives OK\n", len(paths))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deep, "deep", false, "also list each archive through the Archive2 tool")
	return cmd
}

// dataArchives lists every .ba2 file directly under the Data directory.
func dataArchives(gameDir string) ([]string, error) {
	dataDir := filepath.Join(gameDir, "Data")
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".ba2") {
			continue
		}
		paths = append(paths, filepath.Join(dataDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
