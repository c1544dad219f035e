package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shuiping150/whitedb/internal/layout"
	"github.com/shuiping150/whitedb/internal/segfile"
	"github.com/shuiping150/whitedb/segment"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Open a segment file and report its header metadata",
		Long: `info validates a segment's magic and version, then reports its
total size, owner key, parent linkage, and bump-pointer free offset.

Example:
  segctl info seg.db
  segctl info seg.db --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
}

func runInfo(args []string) error {
	path := args[0]
	printVerbose("opening segment %s\n", path)

	data, cleanup, err := segfile.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open segment file: %w", err)
	}
	defer cleanup()

	s, err := segment.Open(data)
	if err != nil {
		return fmt.Errorf("failed to open segment: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path":         path,
			"totalSize":    s.TotalSize(),
			"ownerKey":     s.OwnerKey(),
			"parentOffset": s.ParentOffset(),
			"free":         s.Free(),
		})
	}

	printInfo("Segment: %s\n", path)
	printInfo("  Total size:    %d bytes\n", s.TotalSize())
	printInfo("  Owner key:     %d\n", s.OwnerKey())
	printInfo("  Parent offset: %d\n", s.ParentOffset())
	printInfo("  Free ptr:      %d\n", s.Free())

	printInfo("\nAreas:\n")
	for area := layout.AreaID(0); int(area) < layout.AreaCount; area++ {
		ah := s.Area(area)
		kind := "variable"
		if ah.FixedLength() {
			kind = fmt.Sprintf("fixed(%d)", ah.ObjLength())
		}
		printInfo("  %-10s %-12s sub-areas=%d\n", area, kind, ah.LastSubareaIndex()+1)
	}
	return nil
}
