// Package convert wraps ffmpeg and ffprobe for local media work: probing
// file properties, re-encoding downloads for finicky players and
// converting between formats, with progress derived from ffmpeg output.
package convert
