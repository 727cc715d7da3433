package collector

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/zgpcy/watchface/internal/clock"
	"github.com/zgpcy/watchface/internal/config"
	"github.com/zgpcy/watchface/internal/dial"
	"github.com/zgpcy/watchface/internal/logger"
)

// testLogger creates a logger for testing (error level to suppress test output)
func testLogger() *logger.Logger {
	return logger.Discard()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.TickInterval = 50
	return cfg
}

func newTestCollector(start time.Time) (*FaceCollector, *clock.FakeClock) {
	fake := clock.NewFakeClock(start)
	sampler := clock.NewSampler(fake, time.UTC)
	return NewFaceCollector(sampler, testConfig(), testLogger()), fake
}

func collectMetrics(c prometheus.Collector) []prometheus.Metric {
	ch := make(chan prometheus.Metric, 32)
	go func() {
		c.Collect(ch)
		close(ch)
	}()

	var metrics []prometheus.Metric
	for metric := range ch {
		metrics = append(metrics, metric)
	}
	return metrics
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestNewFaceCollector tests collector creation
func TestNewFaceCollector(t *testing.T) {
	c, _ := newTestCollector(time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC))

	if c == nil {
		t.Fatal("NewFaceCollector returned nil")
	}
	if c.sampler == nil {
		t.Error("sampler should not be nil")
	}
	if c.calculator == nil {
		t.Error("calculator should not be nil")
	}
	if c.handAngleMetric == nil {
		t.Error("handAngleMetric should not be nil")
	}
	if c.IsReady() {
		t.Error("collector should not be ready before the first tick")
	}
	if _, ok := c.Latest(); ok {
		t.Error("Latest() should report no snapshot before the first tick")
	}
}

// TestDescribe tests the Describe method
func TestDescribe(t *testing.T) {
	c, _ := newTestCollector(time.Now())

	ch := make(chan *prometheus.Desc, 16)
	go func() {
		c.Describe(ch)
		close(ch)
	}()

	var descs []*prometheus.Desc
	for desc := range ch {
		descs = append(descs, desc)
	}

	// hand angle, ready, tick duration, last tick, subscribers, ticks, dropped, build info
	if len(descs) != 8 {
		t.Errorf("Expected 8 descriptors, got %d", len(descs))
	}
}

// TestCollect_NoTick tests collection before the first tick
func TestCollect_NoTick(t *testing.T) {
	c, _ := newTestCollector(time.Now())

	// ready, tick duration, subscribers, ticks, dropped, build info
	if n := len(collectMetrics(c)); n != 6 {
		t.Errorf("Expected 6 metrics before first tick, got %d", n)
	}
}

// TestCollect_AfterTick tests collection once angles are available
func TestCollect_AfterTick(t *testing.T) {
	c, _ := newTestCollector(time.Date(2026, 10, 19, 6, 30, 0, 0, time.UTC))
	c.Tick()

	// 3 hand angles + last tick + 6 operational
	if n := len(collectMetrics(c)); n != 10 {
		t.Errorf("Expected 10 metrics after a tick, got %d", n)
	}

	expected := `
# HELP watchface_hand_angle_degrees Current rotation of each hand, clockwise from 12 o'clock
# TYPE watchface_hand_angle_degrees gauge
watchface_hand_angle_degrees{hand="hour"} 195
watchface_hand_angle_degrees{hand="minute"} 180
watchface_hand_angle_degrees{hand="second"} 0
# HELP watchface_ready Whether at least one tick has been computed (1 = yes, 0 = no)
# TYPE watchface_ready gauge
watchface_ready 1
# HELP watchface_ticks_total Total number of clock ticks since startup
# TYPE watchface_ticks_total counter
watchface_ticks_total 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"watchface_hand_angle_degrees", "watchface_ready", "watchface_ticks_total")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

// TestTick tests a single tick
func TestTick(t *testing.T) {
	at := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	c, _ := newTestCollector(at)

	snap := c.Tick()

	if snap.ID == "" {
		t.Error("snapshot should have an ID")
	}
	if !snap.Time.Equal(at) {
		t.Errorf("snapshot time = %v, want %v", snap.Time, at)
	}
	if snap.Sample != (clock.TimeSample{Hour: 3}) {
		t.Errorf("snapshot sample = %+v, want 03:00:00", snap.Sample)
	}
	if snap.Angles.Hour.Degrees() != 90 {
		t.Errorf("hour angle = %v, want 90", snap.Angles.Hour.Degrees())
	}
	if snap.Delta.Second != 0 {
		t.Errorf("first tick delta = %v, want 0", snap.Delta.Second)
	}

	if !c.IsReady() {
		t.Error("collector should be ready after a tick")
	}
	if got, ok := c.Latest(); !ok || got.ID != snap.ID {
		t.Error("Latest() should return the tick's snapshot")
	}
	if !c.LastTickTime().Equal(at) {
		t.Errorf("LastTickTime() = %v, want %v", c.LastTickTime(), at)
	}
	if c.TickCount() != 1 {
		t.Errorf("TickCount() = %d, want 1", c.TickCount())
	}
	if testutil.ToFloat64(c.ticksTotal) != 1 {
		t.Errorf("ticks_total = %v, want 1", testutil.ToFloat64(c.ticksTotal))
	}
}

// TestTick_DeltaAcrossRollover tests that hands step forward across 12 o'clock
func TestTick_DeltaAcrossRollover(t *testing.T) {
	c, fake := newTestCollector(time.Date(2026, 10, 19, 11, 59, 59, 0, time.UTC))

	first := c.Tick()
	fake.Advance(time.Second)
	second := c.Tick()

	if !approxEqual(first.Angles.Minute.Degrees(), 359.9) {
		t.Errorf("minute before rollover = %v, want 359.9", first.Angles.Minute.Degrees())
	}
	if second.Angles.Minute.Degrees() != 0 || second.Angles.Hour.Degrees() != 0 {
		t.Errorf("angles after rollover = %v, want 0/0", second.Angles)
	}

	if !approxEqual(second.Delta.Minute, 0.1) {
		t.Errorf("minute delta = %v, want 0.1", second.Delta.Minute)
	}
	if !approxEqual(second.Delta.Hour, 0.5) {
		t.Errorf("hour delta = %v, want 0.5", second.Delta.Hour)
	}
	if !approxEqual(second.Delta.Second, 6) {
		t.Errorf("second delta = %v, want 6", second.Delta.Second)
	}
	if first.ID >= second.ID {
		t.Errorf("IDs should increase: %s then %s", first.ID, second.ID)
	}
}

// TestTick_SmoothSeconds tests that configuration reaches the calculator
func TestTick_SmoothSeconds(t *testing.T) {
	cfg := testConfig()
	cfg.SmoothSeconds = true
	fake := clock.NewFakeClock(time.Date(2026, 10, 19, 0, 0, 10, 500000000, time.UTC))
	c := NewFaceCollector(clock.NewSampler(fake, time.UTC), cfg, testLogger())

	if got := c.Tick().Angles.Second.Degrees(); !approxEqual(got, 63) {
		t.Errorf("smooth second angle = %v, want 63", got)
	}
}

// TestSubscribe tests snapshot fan-out
func TestSubscribe(t *testing.T) {
	c, fake := newTestCollector(time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC))

	first, cancelFirst := c.Subscribe()
	second, cancelSecond := c.Subscribe()
	defer cancelSecond()

	if c.SubscriberCount() != 2 {
		t.Errorf("SubscriberCount() = %d, want 2", c.SubscriberCount())
	}

	snap := c.Tick()
	for i, sub := range []<-chan Snapshot{first, second} {
		select {
		case got := <-sub:
			if got.ID != snap.ID {
				t.Errorf("subscriber %d got %s, want %s", i, got.ID, snap.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive snapshot", i)
		}
	}

	cancelFirst()
	cancelFirst() // second cancel is a no-op

	if _, open := <-first; open {
		t.Error("cancelled subscription channel should be closed")
	}
	if c.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() after cancel = %d, want 1", c.SubscriberCount())
	}

	fake.Advance(time.Second)
	c.Tick()
	if got := <-second; got.Sample.Second != 1 {
		t.Errorf("remaining subscriber got second %d, want 1", got.Sample.Second)
	}
}

// TestSubscribe_SlowSubscriberDropsFrames tests that a full buffer never blocks ticks
func TestSubscribe_SlowSubscriberDropsFrames(t *testing.T) {
	c, fake := newTestCollector(time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC))
	buffer := c.cfg.SubscriberBuffer

	_, cancel := c.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < buffer+3; i++ {
			c.Tick()
			fake.Advance(time.Second)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Tick blocked on a slow subscriber")
	}

	if got := testutil.ToFloat64(c.droppedTotal); got != 3 {
		t.Errorf("dropped_frames_total = %v, want 3", got)
	}
}

// TestSubscribe_DeltaAfterDroppedFrames tests that a subscriber's deltas add
// up to the true angle even when frames were dropped
func TestSubscribe_DeltaAfterDroppedFrames(t *testing.T) {
	cfg := testConfig()
	cfg.SubscriberBuffer = 1
	fake := clock.NewFakeClock(time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC))
	c := NewFaceCollector(clock.NewSampler(fake, time.UTC), cfg, testLogger())

	sub, cancel := c.Subscribe()
	defer cancel()

	// One frame buffered, two dropped
	for i := 0; i < 3; i++ {
		c.Tick()
		fake.Advance(time.Second)
	}
	if got := testutil.ToFloat64(c.droppedTotal); got != 2 {
		t.Fatalf("dropped_frames_total = %v, want 2", got)
	}

	first := <-sub
	rotation := first.Angles.Second.Degrees()

	latest := c.Tick()
	next := <-sub
	rotation += next.Delta.Second

	if !approxEqual(next.Delta.Second, 18) {
		t.Errorf("second delta after dropped frames = %v, want 18", next.Delta.Second)
	}
	if !approxEqual(rotation, latest.Angles.Second.Degrees()) {
		t.Errorf("accumulated second rotation = %v, want %v", rotation, latest.Angles.Second.Degrees())
	}
}

// TestSubscribe_StartsWithLatest tests that a late subscriber gets the
// current snapshot once, with no delta
func TestSubscribe_StartsWithLatest(t *testing.T) {
	c, fake := newTestCollector(time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC))

	c.Tick()
	fake.Advance(time.Second)
	latest := c.Tick()

	sub, cancel := c.Subscribe()
	defer cancel()

	first := <-sub
	if first.ID != latest.ID {
		t.Errorf("first snapshot = %s, want latest %s", first.ID, latest.ID)
	}
	if first.Delta != (dial.HandDeltas{}) {
		t.Errorf("first snapshot delta = %+v, want zero", first.Delta)
	}

	fake.Advance(time.Second)
	c.Tick()
	next := <-sub
	if !approxEqual(next.Delta.Second, 6) {
		t.Errorf("next second delta = %v, want 6", next.Delta.Second)
	}

	select {
	case extra := <-sub:
		t.Errorf("unexpected extra snapshot %s", extra.ID)
	default:
	}
}

// TestStartTicking tests the background tick goroutine
func TestStartTicking(t *testing.T) {
	c, _ := newTestCollector(time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.StartTicking(ctx)

	// The initial tick is synchronous
	if c.TickCount() < 1 {
		t.Fatal("Expected an immediate tick from StartTicking")
	}

	// 50ms interval: alignment tick plus several periodic ticks
	time.Sleep(300 * time.Millisecond)
	if c.TickCount() < 3 {
		t.Errorf("Expected at least 3 ticks after 300ms, got %d", c.TickCount())
	}

	// A second start is ignored
	c.StartTicking(ctx)

	cancel()
	time.Sleep(100 * time.Millisecond)

	ticksAfterCancel := c.TickCount()
	time.Sleep(200 * time.Millisecond)
	if c.TickCount() != ticksAfterCancel {
		t.Error("Ticks should not increase after context cancellation")
	}
}

// TestStartTicking_ContextCancellation tests shutdown before the aligned tick
func TestStartTicking_ContextCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = 60000 // long interval
	c := NewFaceCollector(clock.NewSampler(clock.NewFakeClock(time.Now()), time.UTC), cfg, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	c.StartTicking(ctx)
	cancel()

	time.Sleep(100 * time.Millisecond)

	if calls := c.TickCount(); calls != 1 {
		t.Errorf("Expected exactly 1 tick before cancellation, got %d", calls)
	}

	// The guard resets once the goroutine exits
	if c.tickingStarted.Load() {
		t.Error("tickingStarted should reset after the goroutine stops")
	}
}

func TestUntilBoundary(t *testing.T) {
	base := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	tests := []struct {
		now      time.Time
		interval time.Duration
		want     time.Duration
	}{
		{base.Add(250 * time.Millisecond), time.Second, 750 * time.Millisecond},
		{base, time.Second, time.Second},
		{base.Add(1100 * time.Millisecond), 500 * time.Millisecond, 400 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := untilBoundary(tt.now, tt.interval); got != tt.want {
			t.Errorf("untilBoundary(%v, %v) = %v, want %v", tt.now, tt.interval, got, tt.want)
		}
	}
}

// TestConcurrency_TickAndCollect tests thread-safety of Tick, Collect and Subscribe
func TestConcurrency_TickAndCollect(t *testing.T) {
	c, _ := newTestCollector(time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			c.Tick()
		}()
		go func() {
			defer wg.Done()
			collectMetrics(c)
		}()
		go func() {
			defer wg.Done()
			_, cancel := c.Subscribe()
			cancel()
		}()
	}
	wg.Wait()

	if c.TickCount() != 10 {
		t.Errorf("TickCount() = %d, want 10", c.TickCount())
	}
	if c.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", c.SubscriberCount())
	}
}
