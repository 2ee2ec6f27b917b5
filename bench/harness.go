package bench

import (
	"fmt"
	"slices"

	"github.com/ahmedtd/vec3bench/vec3"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Sink receives the accumulated sink of every Run so the kernel results can
// never be proven dead.
var Sink float32

type Result struct {
	Size       int    `yaml:"size"`
	Runs       int    `yaml:"runs"`
	Layout     string `yaml:"layout"`
	Kernel     string `yaml:"kernel"`
	GroupWidth int    `yaml:"group_width"`
	Clock      string `yaml:"clock"`

	// Start and Stop bracket the first and last timed loop.
	Start float64 `yaml:"-"`
	Stop  float64 `yaml:"-"`

	TotalTime   float64 `yaml:"total_time_seconds"`
	AverageTime float64 `yaml:"average_time_seconds"`
	FLOPs       float64 `yaml:"flops"`
	MFLOPS      float64 `yaml:"mflops"`
	Sink        float32 `yaml:"sink"`

	// Pass mode.  A plain run has exactly one pass.
	Timed         bool      `yaml:"timed"`
	Passes        int       `yaml:"passes"`
	PassTimes     []float64 `yaml:"pass_times_seconds,omitempty"`
	MinTime       float64   `yaml:"fastest_time_per_run_seconds,omitempty"`
	FastestMFLOPS float64   `yaml:"fastest_mflops,omitempty"`
}

// Progress is told about each finished pass.  It is never called inside a
// timed region.
type Progress interface {
	Pass(n int, elapsed, budget float64, mflops float64)
	Done()
}

type nopProgress struct{}

func (nopProgress) Pass(int, float64, float64, float64) {}
func (nopProgress) Done() {}

type runOptions struct {
	progress Progress
	registry *vec3.Registry
	features *cpu.Features
}

type Option func(*runOptions)

func WithProgress(p Progress) Option {
	return func(o *runOptions) {
		o.progress = p
	}
}

// WithFeatures overrides CPU feature detection when selecting the kernel.
func WithFeatures(f cpu.Features) Option {
	return func(o *runOptions) {
		o.features = &f
	}
}

func WithRegistry(r *vec3.Registry) Option {
	return func(o *runOptions) {
		o.registry = r
	}
}

func (o *runOptions) kernel(name string) (*vec3.Kernel, error) {
	features := cpu.DetectFeatures()
	if o.features != nil {
		features = *o.features
	}
	return o.registry.Select(name, features)
}

func buildOptions(opts []Option) *runOptions {
	o := &runOptions{
		progress: nopProgress{},
		registry: vec3.Global,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// workload owns the three buffers of one layout.
type workload struct {
	layout vec3.Layout

	a, b, r    []vec3.Vector3
	sa, sb, sr *vec3.SoA
}

func newWorkload(layout vec3.Layout, size int) (*workload, error) {
	w := &workload{layout: layout}

	var err error
	switch layout {
	case vec3.LayoutSoA:
		if w.sa, err = vec3.MakeSoA(size); err != nil {
			return nil, fmt.Errorf("while allocating a: %w", err)
		}
		if w.sb, err = vec3.MakeSoA(size); err != nil {
			return nil, fmt.Errorf("while allocating b: %w", err)
		}
		if w.sr, err = vec3.MakeSoA(size); err != nil {
			return nil, fmt.Errorf("while allocating result: %w", err)
		}
		vec3.FillSoA(w.sa, w.sb)
	default:
		if w.a, err = vec3.MakeAoS(size); err != nil {
			return nil, fmt.Errorf("while allocating a: %w", err)
		}
		if w.b, err = vec3.MakeAoS(size); err != nil {
			return nil, fmt.Errorf("while allocating b: %w", err)
		}
		if w.r, err = vec3.MakeAoS(size); err != nil {
			return nil, fmt.Errorf("while allocating result: %w", err)
		}
		vec3.FillAoS(w.a, w.b)
	}
	return w, nil
}

// addOnce runs the kernel over the whole buffer and returns the sum of the
// components of the first result vector.
func (w *workload) addOnce(k *vec3.Kernel) float32 {
	if w.layout == vec3.LayoutSoA {
		k.AddSoA(w.sr, w.sa, w.sb)
		return w.sr.X[0] + w.sr.Y[0] + w.sr.Z[0]
	}
	k.AddAoS(w.r, w.a, w.b)
	return w.r[0].X + w.r[0].Y + w.r[0].Z
}

func (w *workload) result() ([]vec3.Vector3, error) {
	if w.layout == vec3.LayoutSoA {
		return w.sr.Interleave()
	}
	return w.r, nil
}

func (w *workload) inputs() (a, b []vec3.Vector3, err error) {
	if w.layout != vec3.LayoutSoA {
		return w.a, w.b, nil
	}
	if a, err = w.sa.Interleave(); err != nil {
		return nil, nil, err
	}
	if b, err = w.sb.Interleave(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// timeLoop is the measured region: one clock read on each side of runs
// back-to-back kernel calls.
func timeLoop(w *workload, k *vec3.Kernel, runs int) (start, stop float64, sink float32) {
	start = Now()
	for run := 0; run < runs; run++ {
		sink += w.addOnce(k)
	}
	stop = Now()
	return start, stop, sink
}

// Run allocates and fills the buffers described by cfg, times the kernel and
// returns the derived metrics.
func Run(cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	k, err := o.kernel(cfg.Kernel)
	if err != nil {
		return nil, fmt.Errorf("while selecting kernel: %w", err)
	}

	w, err := newWorkload(cfg.Layout, cfg.Size)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Size:       cfg.Size,
		Runs:       cfg.Runs,
		Layout:     cfg.Layout.String(),
		Kernel:     k.Name,
		GroupWidth: k.GroupWidth,
		Clock:      ClockName,
		Timed:      cfg.Duration > 0,
	}

	budget := cfg.Duration.Seconds()
	var sink float32
	for {
		start, stop, s := timeLoop(w, k, cfg.Runs)
		sink += s

		if res.Passes == 0 {
			res.Start = start
		}
		res.Stop = stop
		res.Passes++
		res.PassTimes = append(res.PassTimes, stop-start)

		elapsed := stop - res.Start
		if !res.Timed || elapsed >= budget {
			break
		}
		o.progress.Pass(res.Passes, elapsed, budget, MFLOPS(TotalFLOPs(cfg.Size, cfg.Runs), stop-start))
	}
	o.progress.Done()

	Sink += sink
	res.Sink = sink

	totalRuns := cfg.Runs * res.Passes
	for _, t := range res.PassTimes {
		res.TotalTime += t
	}
	res.AverageTime = res.TotalTime / float64(totalRuns)
	res.FLOPs = TotalFLOPs(cfg.Size, totalRuns)
	res.MFLOPS = MFLOPS(res.FLOPs, res.TotalTime)

	fastest := slices.Min(res.PassTimes)
	res.MinTime = fastest / float64(cfg.Runs)
	res.FastestMFLOPS = MFLOPS(TotalFLOPs(cfg.Size, cfg.Runs), fastest)

	return res, nil
}

// Snapshot holds the inputs and the output of a single kernel call, in
// interleaved form regardless of the layout that produced them.
type Snapshot struct {
	Kernel string
	Layout string
	A, B   []vec3.Vector3
	Result []vec3.Vector3
}

// Capture runs the kernel selected by cfg once, untimed.
func Capture(cfg Config, opts ...Option) (*Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	k, err := o.kernel(cfg.Kernel)
	if err != nil {
		return nil, fmt.Errorf("while selecting kernel: %w", err)
	}

	w, err := newWorkload(cfg.Layout, cfg.Size)
	if err != nil {
		return nil, err
	}
	w.addOnce(k)

	a, b, err := w.inputs()
	if err != nil {
		return nil, fmt.Errorf("while interleaving inputs: %w", err)
	}
	r, err := w.result()
	if err != nil {
		return nil, fmt.Errorf("while interleaving result: %w", err)
	}

	return &Snapshot{
		Kernel: k.Name,
		Layout: cfg.Layout.String(),
		A:      a,
		B:      b,
		Result: r,
	}, nil
}
