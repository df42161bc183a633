// Package coordinator runs the periodic drift analysis of the serve command.
//
// The coordinator sits on top of sync.Synchronizer and only ever calls
// Analyse, so it never changes local artifacts or remote settings:
//
//   - an initial analysis of every watched index on startup
//   - a ticker with jitter re-analysing them at the configured interval
//   - the latest Snapshot per index, safe for concurrent readers
//   - graceful shutdown through Stop or context cancellation
//
// # Usage Example
//
//	c := coordinator.New(synchronizer, cfg)
//	go func() {
//	    if err := c.Start(ctx); err != nil {
//	        logger.Errorf("drift coordinator stopped: %v", err)
//	    }
//	}()
//	defer c.Stop()
//
//	for _, snap := range c.Snapshots() {
//	    fmt.Println(snap.Index, snap.Status.State)
//	}
package coordinator
