// Package collector drives the clock face and exports it as Prometheus metrics.
//
// FaceCollector owns the periodic trigger of the face. Each tick it samples
// the wall clock, computes the three hand angles with package dial, and
// stores the result as a Snapshot. Snapshots are immutable values; every
// tick builds a new one and records how far each hand turned since the
// previous tick along the shortest path, so a renderer never animates a
// hand backwards across 12 o'clock.
//
// The collector exposes the following metrics:
//   - watchface_hand_angle_degrees: Current hand rotation with hand label
//   - watchface_ready: 1 once the first tick has run
//   - watchface_ticks_total: Total number of ticks since startup
//   - watchface_dropped_frames_total: Snapshots dropped for slow subscribers
//   - watchface_tick_duration_seconds: Duration of the last tick
//   - watchface_last_tick_timestamp_seconds: Unix timestamp of the last tick
//   - watchface_subscribers: Number of live subscribers
//   - watchface_build_info: Build version information
//
// Subscribers receive snapshots on a buffered channel. Delivery never
// blocks the tick; a subscriber whose buffer is full misses that frame.
//
// Example usage:
//
//	sampler := clock.NewSampler(clock.RealClock{}, cfg.Location())
//	faces := collector.NewFaceCollector(sampler, cfg, log)
//
//	// Register with Prometheus
//	prometheus.MustRegister(faces)
//
//	// Start ticking
//	ctx := context.Background()
//	faces.StartTicking(ctx)
//
//	snapshots, cancel := faces.Subscribe()
//	defer cancel()
//	for snap := range snapshots {
//		fmt.Println(snap.Angles.Second)
//	}
package collector
