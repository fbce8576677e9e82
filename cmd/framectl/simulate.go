package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/joshuapare/framekit/frame"
	"github.com/joshuapare/framekit/frame/physmem"
	"github.com/spf13/cobra"
)

var (
	simFrames  uint64
	simOps     int
	simSeed    int64
	simMaxRun  uint64
	simReserve uint64
)

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().Uint64Var(&simFrames, "frames", 2048, "Total frames in the simulated physical space")
	cmd.Flags().IntVar(&simOps, "ops", 1000, "Number of random allocate/release operations")
	cmd.Flags().Int64Var(&simSeed, "seed", 1, "Seed for the operation stream")
	cmd.Flags().Uint64Var(&simMaxRun, "max-run", 8, "Largest contiguous run a single allocation requests")
	cmd.Flags().Uint64Var(&simReserve, "reserve", 16, "Frames to reserve up front in the process pool")
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run a random allocate/release workload over two pools",
		Long: `The simulate command builds a boot-style layout over an anonymous memory
region: a self-hosted kernel pool over the lower half of the frame space and
a process pool whose bitmap lives in frames allocated from the kernel pool.
It reserves a known-occupied range, runs a seeded random workload, verifies
allocator invariants after every operation, and prints per-pool statistics.

Release protocol violations are fatal: they mean the allocator's bookkeeping
can no longer be trusted.

Example:
  framectl simulate --frames 4096 --ops 5000 --seed 7
  framectl simulate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate()
		},
	}
}

type poolReport struct {
	Base        frame.Frame `json:"base"`
	Frames      uint64      `json:"frames"`
	Free        uint64      `json:"free"`
	AllocCalls  int         `json:"allocCalls"`
	FailedAlloc int         `json:"failedAllocs"`
	Released    uint64      `json:"releasedFrames"`
}

func runSimulate() error {
	if simFrames < 64 {
		return fmt.Errorf("need at least 64 frames, got %d", simFrames)
	}
	if simMaxRun == 0 {
		simMaxRun = 1
	}

	mem, err := physmem.MapAnon(simFrames)
	if err != nil {
		return fmt.Errorf("mapping frame space: %w", err)
	}
	defer mem.Close()

	reg := frame.NewRegistry()

	// Kernel pool over the lower half, hosting its own bitmap.
	kernelFrames := simFrames / 2
	kernel, err := frame.NewPool(mem, reg, 0, kernelFrames, frame.SelfHosted)
	if err != nil {
		return fmt.Errorf("kernel pool: %w", err)
	}
	logger.Debug("kernel pool up", "frames", kernelFrames, "free", kernel.FreeFrames())

	// The process pool's bitmap lives in frames allocated from the kernel pool.
	processFrames := simFrames - kernelFrames
	metaFrame, err := kernel.Allocate(frame.MetadataFrames(processFrames))
	if err != nil {
		return fmt.Errorf("metadata frames: %w", err)
	}
	process, err := frame.NewPool(mem, reg, frame.Frame(kernelFrames), processFrames, metaFrame)
	if err != nil {
		return fmt.Errorf("process pool: %w", err)
	}
	logger.Debug("process pool up", "frames", processFrames, "meta", metaFrame)

	// Carve out a known-occupied range before general allocation begins.
	if simReserve > 0 {
		if simReserve > processFrames/2 {
			simReserve = processFrames / 2
		}
		if err := process.Reserve(process.BaseFrame(), simReserve); err != nil {
			return fmt.Errorf("reserving boot range: %w", err)
		}
		logger.Debug("reserved boot range", "base", process.BaseFrame(), "frames", simReserve)
	}

	pools := []*frame.Pool{kernel, process}
	rng := rand.New(rand.NewSource(simSeed))
	var live []frame.Frame

	for i := 0; i < simOps; i++ {
		if rng.Intn(3) < 2 || len(live) == 0 {
			p := pools[rng.Intn(len(pools))]
			n := 1 + uint64(rng.Int63n(int64(simMaxRun)))
			head, allocErr := p.Allocate(n)
			if errors.Is(allocErr, frame.ErrNoSpace) {
				continue
			}
			if allocErr != nil {
				return fmt.Errorf("op %d: %w", i, allocErr)
			}
			live = append(live, head)
		} else {
			idx := rng.Intn(len(live))
			head := live[idx]
			if relErr := reg.Release(head); relErr != nil {
				// Corrupted or misused bookkeeping; do not keep running.
				logger.Error("release protocol violation", "frame", head, "err", relErr)
				fmt.Fprintf(os.Stderr, "fatal: %v\n", relErr)
				os.Exit(1)
			}
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		for _, p := range pools {
			if verifyErr := frame.Verify(p); verifyErr != nil {
				logger.Error("invariant violation", "err", verifyErr)
				fmt.Fprintf(os.Stderr, "fatal: %v\n", verifyErr)
				os.Exit(1)
			}
		}
	}

	total, free, used := reg.Totals()
	if jsonOut {
		reports := make([]poolReport, 0, len(pools))
		for _, p := range pools {
			st := p.Stats()
			reports = append(reports, poolReport{
				Base:        p.BaseFrame(),
				Frames:      p.FrameCount(),
				Free:        p.FreeFrames(),
				AllocCalls:  st.AllocCalls,
				FailedAlloc: st.FailedAllocs,
				Released:    st.ReleasedFrames,
			})
		}
		return printJSON(map[string]interface{}{
			"ops":   simOps,
			"total": total,
			"free":  free,
			"used":  used,
			"live":  len(live),
			"pools": reports,
		})
	}

	fmt.Printf("simulated %d operations over %d frames (%d live runs at exit)\n",
		simOps, total, len(live))
	fmt.Printf("totals: %d free / %d used\n", free, used)
	for _, p := range pools {
		st := p.Stats()
		fmt.Printf("pool @%d: %d frames, %d free | alloc calls %d (failed %d), released %d frames\n",
			p.BaseFrame(), p.FrameCount(), p.FreeFrames(),
			st.AllocCalls, st.FailedAllocs, st.ReleasedFrames)
	}
	return nil
}
