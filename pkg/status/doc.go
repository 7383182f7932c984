/*
Package status tracks and formats the progress of bulk file operations.

	+-------------+      Advance(n)      +-----------+      sink(done, total)
	|  operation  | ───────────────────▶ |  Tracker  | ─────────────────────▶ host UI
	+-------------+                      +-----+-----+
	                                           │ FormatProgress
	                                           ▼
	                                        zerolog

🎯 Purpose:
- Count finished units (files) against a total fixed when the operation starts
- Never report more than the total, never go backwards
- Always end with a tick where done == total, even when some units were skipped

🔍 Example:

	tracker := status.NewTracker(host.ReportProgress, status.NewDefaultFormatter())
	tracker.Start(ctx, 3)
	tracker.Advance(ctx, 1)
	tracker.Finish(ctx) // sink(3, 3)
*/
package status
