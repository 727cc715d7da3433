// Package server provides the HTTP surface of the watch face.
//
// Routes are served by a chi router with request IDs, real-IP handling,
// panic recovery, request logging, per-route Prometheus metrics and CORS.
//
// Available endpoints:
//   - /                  : Web UI with one live face per configured size
//   - /face.svg?size=N   : Current face as SVG (size 50-2000)
//   - /api/angles        : Latest snapshot as JSON
//   - /api/labels        : Twelve numeral positions (radius, cx, cy)
//   - /api/labels/{hour} : One numeral position (hour 1-12)
//   - /events            : Server-Sent Events stream of snapshots
//   - /metrics           : Prometheus metrics endpoint
//   - /health            : Liveness probe (always returns 200)
//   - /ready             : Readiness probe (returns 200 once the first tick ran)
//
// Invalid query or path parameters return 400 with a JSON body of the form
// {"error": "..."}.
//
// The server is configured with sensible timeout defaults:
//   - Read timeout: 15 seconds
//   - Write timeout: 15 seconds (cleared for /events)
//   - Idle timeout: 60 seconds
//
// Example usage:
//
//	srv := server.NewServer(cfg, faces, log, reg)
//
//	serverErrors := make(chan error, 1)
//	go func() {
//		serverErrors <- srv.Start()
//	}()
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	if err := srv.Shutdown(ctx); err != nil {
//		log.Error("Error during shutdown", "error", err)
//	}
package server
