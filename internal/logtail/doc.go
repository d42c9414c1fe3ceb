// Package logtail reads the tail of reel's log file and turns zerolog JSON
// lines into something readable in the Logs view.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries and scans the file once, so
// memory stays bounded by maxLines rather than the file size. A missing file
// yields no lines and no error.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Formatting
//
// Parse decodes a JSON line into an Entry. Lines that fail to decode keep
// their raw text, which covers panics and anything written before the
// logger came up. Format renders an Entry as
//
//	15:04:05 INF [component] message key=value ... error=...
//
// Fields are sorted by key. Styling is left to the caller.
package logtail
