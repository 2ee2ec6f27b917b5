// Command vec3-add-bench measures the throughput of element-wise Vector3
// addition.
//
// With no arguments it runs the reference measurement (250000 vectors, 10
// runs, interleaved layout, best kernel for this CPU):
//
//	go run ./cmd/vec3-add-bench
//
// To compare layouts: `go run ./cmd/vec3-add-bench run --layout=soa`
//
// To look at the data: `go run ./cmd/vec3-add-bench dump --out=vectors.npz`
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"text/tabwriter"
	"time"

	"github.com/ahmedtd/vec3bench/bench"
	"github.com/ahmedtd/vec3bench/vec3"
	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/google/subcommands"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&RunCommand{}, "")
	subcommands.Register(&InfoCommand{}, "")
	subcommands.Register(&DumpCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	if flag.NArg() == 0 {
		os.Exit(int(runDefault(ctx)))
	}
	os.Exit(int(subcommands.Execute(ctx)))
}

// runDefault runs the reference measurement with every flag at its default.
func runDefault(ctx context.Context) subcommands.ExitStatus {
	c := &RunCommand{}
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	return c.Execute(ctx, f)
}

// benchFlags are the flags shared by commands that build a bench.Config.
type benchFlags struct {
	size   int
	runs   int
	layout string
	kernel string
}

func (b *benchFlags) register(f *flag.FlagSet) {
	f.IntVar(&b.size, "size", bench.DefaultSize, "Number of vectors in each array")
	f.IntVar(&b.runs, "runs", bench.DefaultRuns, "Kernel calls per timed loop")
	f.StringVar(&b.layout, "layout", "aos", "Component layout: aos (interleaved) or soa (separate arrays)")
	f.StringVar(&b.kernel, "kernel", "auto", "Kernel to run; see the info command for the list")
}

func (b *benchFlags) config() (bench.Config, error) {
	layout, err := vec3.ParseLayout(b.layout)
	if err != nil {
		return bench.Config{}, err
	}
	cfg := bench.Config{
		Size:   b.size,
		Runs:   b.runs,
		Layout: layout,
		Kernel: b.kernel,
	}
	if err := cfg.Validate(); err != nil {
		return bench.Config{}, err
	}
	return cfg, nil
}

type RunCommand struct {
	benchFlags

	duration time.Duration
	format   string

	cpuProfileFile string

	stdout io.Writer
}

var _ subcommands.Command = (*RunCommand)(nil)

func (*RunCommand) Name() string {
	return "run"
}

func (*RunCommand) Synopsis() string {
	return "Time the vector addition kernel and report MFLOPS"
}

func (*RunCommand) Usage() string {
	return `run [--size=N] [--runs=N] [--layout=aos|soa] [--kernel=NAME] [--duration=D] [--format=text|yaml]
`
}

func (c *RunCommand) SetFlags(f *flag.FlagSet) {
	c.benchFlags.register(f)
	f.DurationVar(&c.duration, "duration", 0, "Repeat timed loops until this much time has passed and also report the fastest one (0 runs a single loop)")
	f.StringVar(&c.format, "format", "text", "Report format: text or yaml")

	f.StringVar(&c.cpuProfileFile, "cpu-profile", "", "Write a CPU profile")
}

func (c *RunCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *RunCommand) executeErr(ctx context.Context) error {
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	cfg, err := c.config()
	if err != nil {
		return fmt.Errorf("while reading flags: %w", err)
	}
	cfg.Duration = c.duration

	if c.cpuProfileFile != "" {
		f, err := os.Create(c.cpuProfileFile)
		if err != nil {
			return fmt.Errorf("while creating CPU profile file: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("while starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	res, err := bench.Run(cfg, bench.WithProgress(bench.NewConsoleProgress(os.Stderr)))
	if err != nil {
		return fmt.Errorf("while running benchmark: %w", err)
	}
	log.Print(bench.Describe(res))

	if err := bench.WriteReport(out, c.format, res); err != nil {
		return fmt.Errorf("while writing report: %w", err)
	}
	return nil
}

type InfoCommand struct {
	stdout io.Writer
}

var _ subcommands.Command = (*InfoCommand)(nil)

func (*InfoCommand) Name() string {
	return "info"
}

func (*InfoCommand) Synopsis() string {
	return "Show CPU features and the registered kernels"
}

func (*InfoCommand) Usage() string {
	return ``
}

func (c *InfoCommand) SetFlags(f *flag.FlagSet) {}

func (c *InfoCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *InfoCommand) executeErr(ctx context.Context) error {
	out := c.stdout
	if out == nil {
		out = os.Stdout
	}
	return writeInfo(out, cpu.DetectFeatures(), vec3.Global)
}

func writeInfo(out io.Writer, features cpu.Features, reg *vec3.Registry) error {
	selected := "none"
	if k := reg.Lookup(features); k != nil {
		selected = k.Name
	}

	fmt.Fprintf(out, "Architecture: %s\n", features.Architecture)
	fmt.Fprintf(out, "Features: sse2=%t avx2=%t neon=%t force-generic=%t\n",
		features.HasSSE2, features.HasAVX2, features.HasNEON, features.ForceGeneric)
	fmt.Fprintf(out, "Clock: %s\n", bench.ClockName)
	fmt.Fprintf(out, "Alignment: %d bytes\n", vec3.Alignment)
	fmt.Fprintf(out, "Auto kernel: %s\n", selected)
	message.NewPrinter(language.English).Fprintf(out, "Reference workload: %d vectors x %d runs = %d FLOPs\n\n",
		bench.DefaultSize, bench.DefaultRuns, int64(bench.TotalFLOPs(bench.DefaultSize, bench.DefaultRuns)))

	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "KERNEL\tLEVEL\tGROUP\tPRIORITY\tSUPPORTED")
	for _, k := range reg.Entries() {
		fmt.Fprintf(tw, "%s\t%v\t%d\t%d\t%t\n", k.Name, k.SIMDLevel, k.GroupWidth, k.Priority, cpu.Supports(features, k.SIMDLevel))
	}
	return tw.Flush()
}

type DumpCommand struct {
	benchFlags

	outputFile string
	format     string
}

var _ subcommands.Command = (*DumpCommand)(nil)

func (*DumpCommand) Name() string {
	return "dump"
}

func (*DumpCommand) Synopsis() string {
	return "Write the generated inputs and one kernel result to a file"
}

func (*DumpCommand) Usage() string {
	return `dump --out=FILE [--format=npz|safetensors] [--size=N] [--layout=aos|soa] [--kernel=NAME]
`
}

func (c *DumpCommand) SetFlags(f *flag.FlagSet) {
	c.benchFlags.register(f)
	f.StringVar(&c.outputFile, "out", "vectors.npz", "Path of the output file")
	f.StringVar(&c.format, "format", "npz", "Output format: npz (flat float32 arrays) or safetensors ((n, 3) tensors)")
}

func (c *DumpCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *DumpCommand) executeErr(ctx context.Context) error {
	cfg, err := c.config()
	if err != nil {
		return fmt.Errorf("while reading flags: %w", err)
	}

	snap, err := bench.Capture(cfg)
	if err != nil {
		return fmt.Errorf("while computing result: %w", err)
	}

	switch c.format {
	case "npz":
		err = vec3.WriteNPZ(c.outputFile, map[string][]vec3.Vector3{
			"a":      snap.A,
			"b":      snap.B,
			"result": snap.Result,
		})
	case "safetensors":
		err = c.writeSafeTensors(snap)
	default:
		err = fmt.Errorf("unknown format %q (want npz or safetensors)", c.format)
	}
	if err != nil {
		return fmt.Errorf("while writing %s: %w", c.outputFile, err)
	}

	log.Printf("wrote %s format=%s kernel=%s layout=%s size=%d max-abs-result=%g",
		c.outputFile, c.format, snap.Kernel, snap.Layout, len(snap.Result), vec3.MaxAbs(snap.Result))
	return nil
}

func (c *DumpCommand) writeSafeTensors(snap *bench.Snapshot) error {
	f, err := os.Create(c.outputFile)
	if err != nil {
		return fmt.Errorf("while creating output file: %w", err)
	}
	defer f.Close()

	tensors := map[string]*vec3.Tensor{
		"a":      vec3.VectorTensor(snap.A),
		"b":      vec3.VectorTensor(snap.B),
		"result": vec3.VectorTensor(snap.Result),
	}
	if err := vec3.WriteSafeTensors(f, tensors); err != nil {
		return err
	}
	return f.Close()
}
