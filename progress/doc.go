// Package progress renders a live terminal view of one scheduler run,
// built on charm.land/bubbletea/v2 and charm.land/lipgloss/v2 in the same
// Program/Model/Update/View idiom as a bubbletea terminal application.
// Feed it scheduler.Event values from scheduler.Options.Progress as they
// arrive; it tallies them by status and redraws a one-line-per-task
// scrolling summary plus a running total. Optionally feed it a
// log.Publisher subscription's channel too, so slog output during the
// run renders as its own scrolling pane instead of being interleaved
// with the live frame on stderr.
package progress
