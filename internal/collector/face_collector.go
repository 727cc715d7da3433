package collector

import (
	"context"
	"crypto/rand"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zgpcy/watchface/internal/clock"
	"github.com/zgpcy/watchface/internal/config"
	"github.com/zgpcy/watchface/internal/dial"
	"github.com/zgpcy/watchface/internal/logger"
	"github.com/zgpcy/watchface/internal/version"
)

// Snapshot is the result of one tick.
type Snapshot struct {
	ID     string           `json:"id"`
	Time   time.Time        `json:"time"`
	Sample clock.TimeSample `json:"sample"`
	Angles dial.HandAngles  `json:"angles"`
	// Delta is the shortest rotation of each hand since the previous
	// snapshot the same receiver got: the previous tick for Tick and
	// Latest, the previous delivered frame for a subscriber. Zero on a
	// receiver's first snapshot.
	Delta dial.HandDeltas `json:"delta"`
}

// subscriber tracks what one listener has actually received, so deltas
// stay correct when frames are dropped.
type subscriber struct {
	ch      chan Snapshot
	last    dial.HandAngles
	hasLast bool
}

// offer delivers snap without blocking. Delta is rewritten relative to
// the last snapshot this subscriber received.
func (s *subscriber) offer(snap Snapshot) bool {
	snap.Delta = dial.HandDeltas{}
	if s.hasLast {
		snap.Delta = s.last.DeltaTo(snap.Angles)
	}
	select {
	case s.ch <- snap:
		s.last = snap.Angles
		s.hasLast = true
		return true
	default:
		return false
	}
}

// FaceCollector drives the clock face: it samples the time once per tick,
// keeps the latest hand angles, fans them out to subscribers, and exposes
// them as Prometheus metrics.
type FaceCollector struct {
	sampler    *clock.Sampler
	calculator *dial.Calculator
	cfg        *config.Config
	logger     *logger.Logger

	// Metrics
	handAngleMetric    *prometheus.Desc
	readyMetric        *prometheus.Desc
	tickDurationMetric *prometheus.Desc
	lastTickMetric     *prometheus.Desc
	subscribersMetric  *prometheus.Desc
	ticksTotal         prometheus.Counter
	droppedTotal       prometheus.Counter
	buildInfo          *prometheus.GaugeVec

	// State
	mu               sync.RWMutex
	latest           Snapshot
	lastTickDuration time.Duration
	tickCount        uint64
	isReady          bool
	entropy          io.Reader
	subscribers      map[uint64]*subscriber
	nextSubscriber   uint64
	tickingStarted   atomic.Bool // Prevent multiple tick goroutines
}

// NewFaceCollector creates a FaceCollector reading time from sampler
func NewFaceCollector(sampler *clock.Sampler, cfg *config.Config, log *logger.Logger) *FaceCollector {
	ticksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchface_ticks_total",
		Help: "Total number of clock ticks since startup",
	})

	droppedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchface_dropped_frames_total",
		Help: "Snapshots not delivered because a subscriber's buffer was full",
	})

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "watchface_build_info",
			Help: "Build version information",
		},
		[]string{"version", "git_commit", "build_date", "go_version"},
	)

	versionInfo := version.Info()
	buildInfo.With(prometheus.Labels{
		"version":    versionInfo["version"],
		"git_commit": versionInfo["git_commit"],
		"build_date": versionInfo["build_date"],
		"go_version": versionInfo["go_version"],
	}).Set(1)

	return &FaceCollector{
		sampler:    sampler,
		calculator: dial.NewCalculator(dial.WithSmoothSeconds(cfg.SmoothSeconds)),
		cfg:        cfg,
		logger:     log,
		handAngleMetric: prometheus.NewDesc(
			"watchface_hand_angle_degrees",
			"Current rotation of each hand, clockwise from 12 o'clock",
			[]string{"hand"},
			nil,
		),
		readyMetric: prometheus.NewDesc(
			"watchface_ready",
			"Whether at least one tick has been computed (1 = yes, 0 = no)",
			nil,
			nil,
		),
		tickDurationMetric: prometheus.NewDesc(
			"watchface_tick_duration_seconds",
			"Duration of the last tick computation in seconds",
			nil,
			nil,
		),
		lastTickMetric: prometheus.NewDesc(
			"watchface_last_tick_timestamp_seconds",
			"Unix timestamp of the last tick",
			nil,
			nil,
		),
		subscribersMetric: prometheus.NewDesc(
			"watchface_subscribers",
			"Number of live snapshot subscribers",
			nil,
			nil,
		),
		ticksTotal:   ticksTotal,
		droppedTotal: droppedTotal,
		buildInfo:    buildInfo,
		entropy:      ulid.Monotonic(rand.Reader, 0),
		subscribers:  make(map[uint64]*subscriber),
	}
}

// Describe implements prometheus.Collector
func (c *FaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.handAngleMetric
	ch <- c.readyMetric
	ch <- c.tickDurationMetric
	ch <- c.lastTickMetric
	ch <- c.subscribersMetric
	c.ticksTotal.Describe(ch)
	c.droppedTotal.Describe(ch)
	c.buildInfo.Describe(ch)
}

// Collect implements prometheus.Collector
func (c *FaceCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	readyValue := 0.0
	if c.isReady {
		readyValue = 1.0

		hands := []struct {
			name  string
			angle dial.WrappedAngle
		}{
			{"hour", c.latest.Angles.Hour},
			{"minute", c.latest.Angles.Minute},
			{"second", c.latest.Angles.Second},
		}
		for _, h := range hands {
			ch <- prometheus.MustNewConstMetric(
				c.handAngleMetric,
				prometheus.GaugeValue,
				h.angle.Degrees(),
				h.name,
			)
		}

		ch <- prometheus.MustNewConstMetric(
			c.lastTickMetric,
			prometheus.GaugeValue,
			float64(c.latest.Time.Unix()),
		)
	}

	ch <- prometheus.MustNewConstMetric(c.readyMetric, prometheus.GaugeValue, readyValue)

	ch <- prometheus.MustNewConstMetric(
		c.tickDurationMetric,
		prometheus.GaugeValue,
		c.lastTickDuration.Seconds(),
	)

	ch <- prometheus.MustNewConstMetric(
		c.subscribersMetric,
		prometheus.GaugeValue,
		float64(len(c.subscribers)),
	)

	c.ticksTotal.Collect(ch)
	c.droppedTotal.Collect(ch)
	c.buildInfo.Collect(ch)
}

// StartTicking runs one tick immediately, then one per configured interval
// aligned to the interval boundary, until ctx is done.
func (c *FaceCollector) StartTicking(ctx context.Context) {
	if !c.tickingStarted.CompareAndSwap(false, true) {
		c.logger.Warn("Ticking already started, skipping")
		return
	}

	interval := c.cfg.TickDuration()

	// Initial tick
	c.Tick()

	go func() {
		defer c.tickingStarted.Store(false) // Reset on exit

		// Align with the wall clock so the second hand moves as the second changes
		align := time.NewTimer(untilBoundary(time.Now(), interval))
		select {
		case <-ctx.Done():
			align.Stop()
			c.logger.Info("Stopping clock ticks")
			return
		case <-align.C:
			c.Tick()
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Stopping clock ticks")
				return
			case <-ticker.C:
				c.Tick()
			}
		}
	}()
}

// untilBoundary returns how long until the next multiple of interval.
func untilBoundary(now time.Time, interval time.Duration) time.Duration {
	next := now.Truncate(interval).Add(interval)
	return next.Sub(now)
}

// Tick samples the clock, computes hand angles, stores the snapshot and
// pushes it to every subscriber.
func (c *FaceCollector) Tick() Snapshot {
	start := time.Now()
	now := c.sampler.Now()
	sample := clock.NewTimeSample(now)
	angles := c.calculator.AnglesFor(sample)
	duration := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		ID:     c.newID(now),
		Time:   now,
		Sample: sample,
		Angles: angles,
	}
	if c.isReady {
		snap.Delta = c.latest.Angles.DeltaTo(angles)
	}

	c.latest = snap
	c.lastTickDuration = duration
	c.tickCount++
	c.isReady = true
	c.ticksTotal.Inc()

	for id, sub := range c.subscribers {
		if !sub.offer(snap) {
			c.droppedTotal.Inc()
			c.logger.Debug("Dropped snapshot for slow subscriber", "subscriber", id)
		}
	}

	c.logger.Debug("Clock tick",
		"time", sample.String(),
		"hour_deg", angles.Hour.Degrees(),
		"minute_deg", angles.Minute.Degrees(),
		"second_deg", angles.Second.Degrees())

	return snap
}

// newID must be called with c.mu held; monotonic entropy is not safe for
// concurrent use.
func (c *FaceCollector) newID(now time.Time) string {
	id, err := ulid.New(ulid.Timestamp(now), c.entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

// Subscribe registers a listener. Once a tick has run, the channel starts
// with the latest snapshot, followed by every later one the buffer can
// take. The returned cancel func unregisters it and closes the channel;
// calling it twice is safe.
func (c *FaceCollector) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, c.cfg.SubscriberBuffer)
	sub := &subscriber{ch: ch}

	c.mu.Lock()
	id := c.nextSubscriber
	c.nextSubscriber++
	c.subscribers[id] = sub
	if c.isReady {
		sub.offer(c.latest)
	}
	c.mu.Unlock()

	c.logger.Debug("Subscriber added", "subscriber", id)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			close(ch)
			c.mu.Unlock()
			c.logger.Debug("Subscriber removed", "subscriber", id)
		})
	}
	return ch, cancel
}

// Latest returns the most recent snapshot and whether any tick has run
func (c *FaceCollector) Latest() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest, c.isReady
}

// IsReady returns true once the first tick has been computed
func (c *FaceCollector) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// LastTickTime returns the clock time of the last tick
func (c *FaceCollector) LastTickTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest.Time
}

// TickCount returns the number of ticks since startup
func (c *FaceCollector) TickCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickCount
}

// SubscriberCount returns the number of live subscribers
func (c *FaceCollector) SubscriberCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscribers)
}
