package telemetry

import (
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Phase identifies a timed part of a simulation tick.
type Phase uint8

const (
	PhaseEnvironment Phase = iota // food matrix, rabbit dens
	PhaseFoxes
	PhaseHunter
	PhaseAnts
	PhaseTelemetry
	PhaseStore
	numPhases
)

var phaseNames = [numPhases]string{"environment", "foxes", "hunter", "ants", "telemetry", "store"}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type perfSample struct {
	tick   time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector tracks tick timings over a rolling window.
type PerfCollector struct {
	samples []perfSample
	next    int
	count   int

	current    perfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration

	// Host process usage, refreshed by SampleProcess
	proc   *process.Process
	rss    uint64
	cpuPct float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{samples: make([]perfSample, windowSize)}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		slog.Debug("process stats unavailable", "error", err)
	} else {
		p.proc = proc
	}
	return p
}

// SampleProcess refreshes resident memory and CPU use of this process.
// CPU is averaged since process start.
func (p *PerfCollector) SampleProcess() {
	if p.proc == nil {
		return
	}
	if mem, err := p.proc.MemoryInfo(); err == nil {
		p.rss = mem.RSS
	}
	if pct, err := p.proc.CPUPercent(); err == nil {
		p.cpuPct = pct
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = perfSample{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.endPhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.endPhase(now)
	p.current.tick = now.Sub(p.tickStart)

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	p.count = min(p.count+1, len(p.samples))
}

// RecordFrame records frame timing for graphical mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	// Share of the average tick spent in each phase, in percent
	PhasePct [numPhases]float64

	TicksPerSecond float64
	FPS            float64

	RSS        uint64  // Resident memory in bytes at the last SampleProcess
	CPUPercent float64 // Process CPU use at the last SampleProcess
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{RSS: p.rss, CPUPercent: p.cpuPct}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.count; i++ {
		smp := p.samples[i]
		total += smp.tick
		if i == 0 || smp.tick < s.MinTick {
			s.MinTick = smp.tick
		}
		s.MaxTick = max(s.MaxTick, smp.tick)
		for ph, d := range smp.phases {
			phaseSum[ph] += d
		}
	}

	s.AvgTick = total / time.Duration(p.count)
	if total > 0 {
		for ph, d := range phaseSum {
			s.PhasePct[ph] = float64(d) / float64(total) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	if s.RSS > 0 {
		attrs = append(attrs, slog.Uint64("rss_bytes", s.RSS), slog.Float64("cpu_pct", float64(int(s.CPUPercent*10))/10))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is a flat struct for CSV export of performance stats.
type PerfRecord struct {
	At             int     `csv:"at"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	EnvironmentPct float64 `csv:"environment_pct"`
	FoxesPct       float64 `csv:"foxes_pct"`
	HunterPct      float64 `csv:"hunter_pct"`
	AntsPct        float64 `csv:"ants_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
	StorePct       float64 `csv:"store_pct"`
	RSSMB          float64 `csv:"rss_mb"`
	CPUPct         float64 `csv:"cpu_pct"`
}

// Record flattens the stats for CSV output.
func (s PerfStats) Record(at int) PerfRecord {
	return PerfRecord{
		At:             at,
		AvgTickUS:      s.AvgTick.Microseconds(),
		MinTickUS:      s.MinTick.Microseconds(),
		MaxTickUS:      s.MaxTick.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		EnvironmentPct: s.PhasePct[PhaseEnvironment],
		FoxesPct:       s.PhasePct[PhaseFoxes],
		HunterPct:      s.PhasePct[PhaseHunter],
		AntsPct:        s.PhasePct[PhaseAnts],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
		StorePct:       s.PhasePct[PhaseStore],
		RSSMB:          float64(s.RSS) / (1 << 20),
		CPUPct:         s.CPUPercent,
	}
}
