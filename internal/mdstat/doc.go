// Package mdstat parses the Linux software RAID status text (/proc/mdstat)
// into structured snapshots and projects them into flat row views.
//
// Parsing never fails: every malformed line is reported to a Sink as a
// Diagnostic and the parser moves on with whatever it could extract.
package mdstat
