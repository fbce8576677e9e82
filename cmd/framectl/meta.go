package main

import (
	"fmt"
	"strconv"

	"github.com/joshuapare/framekit/frame"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newMetaCmd())
}

func newMetaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta <frame-count>",
		Short: "Show metadata frames needed for a pool of the given size",
		Long: `The meta command computes how many whole frames a pool's state bitmap
occupies (2 bits per frame). Pools whose bitmap fits in a single frame can
self-host it; larger pools need externally supplied metadata frames.

Example:
  framectl meta 512
  framectl meta 1048576 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nframes, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || nframes == 0 {
				return fmt.Errorf("invalid frame count %q", args[0])
			}

			needed := frame.MetadataFrames(nframes)
			if jsonOut {
				return printJSON(map[string]uint64{
					"frames":         nframes,
					"metadataFrames": needed,
				})
			}

			fmt.Printf("pool of %d frames (%d KiB):\n", nframes, nframes*frame.FrameSize/1024)
			fmt.Printf("  metadata frames: %d\n", needed)
			if needed == 1 {
				fmt.Printf("  can self-host its bitmap\n")
			} else {
				fmt.Printf("  needs external metadata frames\n")
			}
			return nil
		},
	}
}
