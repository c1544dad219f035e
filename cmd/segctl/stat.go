package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shuiping150/whitedb/alloc"
	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/internal/segfile"
	"github.com/shuiping150/whitedb/segment"
)

var statArea string

func init() {
	cmd := newStatCmd()
	cmd.Flags().StringVar(&statArea, "area", "", "Report only this area (default: all areas)")
	rootCmd.AddCommand(cmd)
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <file>",
		Short: "Report free-space statistics for a segment's areas",
		Long: `stat walks each area's free list or free buckets and reports free
bytes, largest free block, sub-area count, and designated-victim size.
It never modifies the segment.

Example:
  segctl stat seg.db
  segctl stat seg.db --area=datarec`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStat(args)
		},
	}
}

func runStat(args []string) error {
	path := args[0]
	data, cleanup, err := segfile.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open segment file: %w", err)
	}
	defer cleanup()

	s, err := segment.Open(data)
	if err != nil {
		return fmt.Errorf("failed to open segment: %w", err)
	}

	var areas []layout.AreaID
	if statArea != "" {
		id, err := areaByName(statArea)
		if err != nil {
			return err
		}
		areas = []layout.AreaID{id}
	} else {
		for a := layout.AreaID(0); int(a) < layout.AreaCount; a++ {
			areas = append(areas, a)
		}
	}

	if jsonOut {
		out := make(map[string]alloc.Stats, len(areas))
		for _, a := range areas {
			out[a.String()] = alloc.AreaStats(s, a)
		}
		return printJSON(out)
	}

	for _, a := range areas {
		st := alloc.AreaStats(s, a)
		printInfo("%s:\n", a)
		printInfo("  sub-areas:    %d\n", st.SubareaCount)
		printInfo("  total bytes:  %d\n", st.TotalBytes)
		printInfo("  free bytes:   %d\n", st.FreeBytes)
		if !st.FixedLength {
			printInfo("  largest free: %d\n", st.LargestFree)
			printInfo("  dv size:      %d\n", st.DVSize)
		}
	}
	return nil
}

func areaByName(name string) (layout.AreaID, error) {
	for a := layout.AreaID(0); int(a) < layout.AreaCount; a++ {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown area %q", name)
}
