// Package download runs yt-dlp download jobs and reports their lifecycle.
// It owns job state, cancellation and the translation of raw subprocess
// output into progress, while the UI consumes a single event stream.
package download
