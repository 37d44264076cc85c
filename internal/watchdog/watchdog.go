// Package watchdog implements the Scheduler Loop (component J): the
// single-threaded, monotonic-paced tick that drives every other
// component, per spec §4.J and §5.
package watchdog

import (
	"context"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Emasoft/process-killer/internal/actionlog"
	"github.com/Emasoft/process-killer/internal/ancestry"
	"github.com/Emasoft/process-killer/internal/config"
	"github.com/Emasoft/process-killer/internal/dashboard"
	"github.com/Emasoft/process-killer/internal/detector"
	"github.com/Emasoft/process-killer/internal/history"
	"github.com/Emasoft/process-killer/internal/killer"
	"github.com/Emasoft/process-killer/internal/model"
	"github.com/Emasoft/process-killer/internal/oracle"
	"github.com/Emasoft/process-killer/internal/recidivism"
	"github.com/Emasoft/process-killer/internal/sampler"
	"github.com/Emasoft/process-killer/internal/scorer"
	"github.com/Emasoft/process-killer/internal/tuner"
	"github.com/Emasoft/process-killer/internal/whitelist"
)

// Watchdog ties components A-I together for one tick at a time. It
// carries no locks: only Run's goroutine ever touches its fields, per
// spec §5's single-threaded cooperative loop.
type Watchdog struct {
	cfg config.Config
	log *zap.Logger

	sampler    sampler.Sampler
	oracle     oracle.Oracle
	store      *history.Store
	recidivism *recidivism.Tracker
	actionLog  *actionlog.Log

	selfPID       int32
	selfSessionID int32 // this process's own session id; 0 if unknown (see whitelist.Query)
	start         time.Time // wall-clock reference; AtSeconds is time.Since(start).Seconds()

	lastExternalErrLog time.Time // rate-limits tier (ii) error logging to once/minute
}

// New constructs a Watchdog. logger and actionLog are both required:
// zap for ambient operational diagnostics, actionlog for the mandated
// exact-format kill log (see SPEC_FULL.md's AMBIENT STACK section).
func New(cfg config.Config, logger *zap.Logger, al *actionlog.Log) *Watchdog {
	selfPID := whitelist.SelfPID()
	selfSessionID, err := ancestry.SessionID(selfPID)
	if err != nil {
		selfSessionID = 0 // unsupported platform or unreadable: the session-leader rule simply never matches
	}

	return &Watchdog{
		cfg:           cfg,
		log:           logger,
		sampler:       sampler.New(),
		oracle:        oracle.New(),
		store:         history.New(),
		recidivism:    recidivism.New(cfg.NotifyThreshold, float64(cfg.NotifyWindowSec)),
		actionLog:     al,
		selfPID:       selfPID,
		selfSessionID: selfSessionID,
		start:         time.Now(),
	}
}

// Run drives the scheduler loop until ctx is cancelled (by SIGINT/
// SIGTERM in cmd/memwatchd), flushing the action log on exit per spec
// §4.J.
func (w *Watchdog) Run(ctx context.Context) error {
	for {
		tickStart := time.Now()
		w.tick(ctx)
		elapsed := time.Since(tickStart)

		sleep := time.Duration(w.cfg.IntervalSeconds)*time.Second - elapsed
		if sleep < 0 {
			sleep = 0
		}

		select {
		case <-ctx.Done():
			return w.actionLog.Close()
		case <-time.After(sleep):
		}
	}
}

func (w *Watchdog) now() float64 {
	return time.Since(w.start).Seconds()
}

// tick runs one full pass: sample, observe, classify, hunt/protect,
// relieve pressure, garbage-collect. Nothing bubbles out of a tick per
// spec §7: errors are logged and the tick continues.
func (w *Watchdog) tick(ctx context.Context) {
	now := w.now()

	mem, err := w.oracle.Read(ctx)
	if err != nil {
		w.logExternalErr("memory oracle read failed", err)
		return // no basis for thresholds or gating this tick
	}

	th := tuner.Compute(w.cfg, mem.TotalBytes, mem.UsedPct)

	// spec §5: sampling and the container runtime shell-out are each
	// bounded by a soft deadline of interval/2; entries that cannot be
	// read within it are skipped rather than stalling the tick.
	softDeadline := time.Duration(w.cfg.IntervalSeconds) * time.Second / 2

	sampleCtx, cancelSample := context.WithTimeout(ctx, softDeadline)
	procs, err := w.sampler.Snapshot(sampleCtx)
	cancelSample()
	if err != nil {
		w.logExternalErr("process snapshot failed", err)
		procs = nil
	}
	w.store.ObserveProcesses(procs, now, th.GraceSeconds, th.HistoryLen)

	var containers []sampler.ContainerObservation
	if w.cfg.Docker {
		containers, err = sampler.ContainerSnapshot(ctx, softDeadline)
		if err != nil {
			w.logExternalErr("container snapshot failed", err)
		}
		w.store.ObserveContainers(containers, now, th.GraceSeconds, th.HistoryLen)
	}

	liveProcs := make(map[int32]bool, len(procs))
	for _, p := range procs {
		liveProcs[p.PID] = true
	}
	liveContainers := make(map[string]bool, len(containers))
	for _, c := range containers {
		liveContainers[c.ID] = true
	}

	w.classifyAll(ctx, now, th, mem)

	if mem.UsedPct >= th.HighPct {
		w.relievePresure(ctx, now, th)
	}

	horizon := th.CoolSeconds + float64(th.HistoryLen)*float64(w.cfg.IntervalSeconds)
	w.store.GC(now, liveProcs, liveContainers, horizon)
}

// classifyAll advances every tracked process's FSM and, for records
// reaching KILLABLE, kills per spec §4.J step 5 (hunting: unconditional;
// protection: only once used% >= leak_pct).
func (w *Watchdog) classifyAll(ctx context.Context, now float64, th model.EffectiveThresholds, mem oracle.Reading) {
	for _, rec := range w.store.Processes() {
		chain := ancestry.Chain(ctx, rec.PID)
		rec.DescendsFromTerminal = w.cfg.ItermOnly && ancestry.DescendsFromName(ctx, chain, whitelist.TerminalEmulatorName)

		wl := whitelist.Allowed(whitelist.Query{
			PID:               rec.PID,
			Name:              rec.Name,
			SelfPID:           w.selfPID,
			WatchdogSessionID: w.selfSessionID,
			ItermOnlyMode:     w.cfg.ItermOnly,
		})
		rec.Whitelisted = wl

		var predictive bool
		if len(rec.History) > 0 {
			last := rec.History[len(rec.History)-1]
			predictive = detector.PredictedExceedsCeiling(rec.LastClassification.SlopeMBPerMin, last.RSSBytes, float64(w.cfg.IntervalSeconds), mem.TotalBytes)
		}

		detector.Advance(rec, now, th, wl, predictive)

		if rec.State != model.StateKillable {
			continue
		}

		shouldKill := w.cfg.Mode == model.ModeHunting || mem.UsedPct >= th.LeakPct
		if !shouldKill {
			continue
		}

		reason := actionlog.ReasonLeak
		if predictive {
			reason = actionlog.ReasonPredictive
		}
		w.killProcess(ctx, rec, reason, now, th)
	}
}

func (w *Watchdog) killProcess(ctx context.Context, rec *model.ProcessRecord, reason actionlog.Reason, now float64, th model.EffectiveThresholds) {
	outcome := killer.Kill(rec.PID, killer.DefaultGraceKill)

	rssMB := 0.0
	if len(rec.History) > 0 {
		rssMB = float64(rec.History[len(rec.History)-1].RSSBytes) / (1024 * 1024)
	}

	switch outcome {
	case killer.OutcomeSuccess:
		w.actionLog.Write(time.Now(), "kill", rec.PID, rec.Name, reason, rssMB, rec.LastClassification.SlopeMBPerMin)
		w.store.Remove(rec.PID)
		fp := recidivism.Fingerprint(splitCmdline(rec.Cmdline), 3)
		w.recidivism.RecordKill(ctx, fp, now)
	case killer.OutcomeNotFound:
		w.store.Remove(rec.PID) // vanished on its own; not a recidivism-counting kill
	default:
		detector.OnKillFailed(rec, now, th)
	}
}

// relievePresure implements the Pressure Relief Scorer pass (spec
// §4.F): rank non-whitelisted candidates, kill top-down until used% <=
// low or the candidate set (bounded to 1/3) is exhausted.
func (w *Watchdog) relievePresure(ctx context.Context, now float64, th model.EffectiveThresholds) {
	var candidates []scorer.Candidate
	byPID := make(map[int32]*model.ProcessRecord)

	for _, rec := range w.store.Processes() {
		if rec.Whitelisted || rec.PID == w.selfPID || rec.PID == 1 || rec.State == model.StateGrace {
			continue
		}
		if w.cfg.ItermOnly && !rec.DescendsFromTerminal {
			continue
		}
		age := now - secondsSince(rec.CreatedAt, w.start)
		rssBytes := uint64(0)
		if len(rec.History) > 0 {
			rssBytes = rec.History[len(rec.History)-1].RSSBytes
		}
		candidates = append(candidates, scorer.Candidate{
			PID:        rec.PID,
			State:      rec.State,
			SlopeMBMin: rec.LastClassification.SlopeMBPerMin,
			RSSBytes:   rssBytes,
			ChildCount: rec.ChildCount,
			AgeSeconds: age,
		})
		byPID[rec.PID] = rec
	}

	if len(candidates) == 0 {
		return
	}

	ranked := scorer.Rank(candidates, w.cfg.ChildWeight)
	maxKills := scorer.MaxKills(len(candidates))

	killed := 0
	for _, c := range ranked {
		if killed >= maxKills {
			break
		}
		mem, err := w.oracle.Read(ctx)
		if err != nil {
			w.logExternalErr("memory oracle read failed during relief", err)
			return
		}
		if mem.UsedPct <= th.LowPct {
			return
		}
		rec := byPID[c.PID]
		w.killProcess(ctx, rec, actionlog.ReasonPressure, now, th)
		killed++
	}
}

func secondsSince(t time.Time, start time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return t.Sub(start).Seconds()
}

func splitCmdline(cmdline string) []string {
	var out []string
	field := make([]byte, 0, len(cmdline))
	for i := 0; i < len(cmdline); i++ {
		c := cmdline[i]
		if c == ' ' || c == '\t' {
			if len(field) > 0 {
				out = append(out, string(field))
				field = field[:0]
			}
			continue
		}
		field = append(field, c)
	}
	if len(field) > 0 {
		out = append(out, string(field))
	}
	return out
}

// logExternalErr rate-limits tier (ii) transient-external logging to
// once per minute, per spec §7.
func (w *Watchdog) logExternalErr(msg string, err error) {
	if time.Since(w.lastExternalErrLog) < time.Minute {
		return
	}
	w.lastExternalErrLog = time.Now()
	w.log.Warn(msg, zap.Error(err))
}

// ProcessRows and ContainerRows implement dashboard.Snapshotter, letting
// cmd/memwatchd hand this Watchdog straight to internal/dashboard.Run
// without either package depending on the other's internals beyond this
// small interface.
func (w *Watchdog) ProcessRows() []dashboard.Row {
	recs := w.store.Processes()
	rows := make([]dashboard.Row, len(recs))
	for i, r := range recs {
		rssMB := 0.0
		if len(r.History) > 0 {
			rssMB = float64(r.History[len(r.History)-1].RSSBytes) / (1024 * 1024)
		}
		rows[i] = dashboard.Row{
			ID:         strconv.Itoa(int(r.PID)),
			Name:       r.Name,
			State:      r.State,
			SlopeMBMin: r.LastClassification.SlopeMBPerMin,
			RSSMB:      rssMB,
		}
	}
	return rows
}

func (w *Watchdog) ContainerRows() []dashboard.Row {
	recs := w.store.Containers()
	rows := make([]dashboard.Row, len(recs))
	for i, r := range recs {
		rssMB := 0.0
		if len(r.History) > 0 {
			rssMB = float64(r.History[len(r.History)-1].RSSBytes) / (1024 * 1024)
		}
		rows[i] = dashboard.Row{
			ID:         r.ID,
			Name:       r.Name,
			State:      r.State,
			SlopeMBMin: r.LastClassification.SlopeMBPerMin,
			RSSMB:      rssMB,
		}
	}
	return rows
}

// RequirePrivilege returns an error unless this process runs with
// effective uid 0; cmd/memwatchd exits 2 on that error, per spec §6. No
// capability probe is made, so a non-root process holding CAP_KILL is
// rejected too.
func RequirePrivilege() error {
	if os.Geteuid() != 0 {
		return errUnprivileged
	}
	return nil
}

var errUnprivileged = &privilegeError{}

type privilegeError struct{}

func (*privilegeError) Error() string {
	return "memwatchd requires privilege to signal other users' processes; run as root"
}
