// Package logtail reads the end of listkeeper's log file for the activity
// view.
//
// Tail walks the file backwards in fixed-size chunks, so reading the last few
// hundred lines costs the same whether the log is a kilobyte or a gigabyte.
// Lines come back oldest first with any trailing "\r" removed. A missing file
// is not an error; it yields no lines.
//
//	lines, err := logtail.Tail(cfg.LogFile, 200)
//
// Classify marks the lines that record a failure: a manager reporting
// "<tab>: <op> failed: ...", a response with a 4xx/5xx status, or a request
// line ending in a transport error. The UI uses it to colour the view.
package logtail
