// Package notifier announces newly stored strokes-gained records.
//
// Posts are formatted once by FormatPost and either printed (DryRunNotifier)
// or published to Twitter through OAuth1 credentials (TwitterNotifier).
package notifier
