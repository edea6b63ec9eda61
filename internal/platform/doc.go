package platform

// Package platform wraps the external command-line tools (yt-dlp, ffmpeg,
// ffprobe) and the host filesystem: it builds their argument lists, parses
// their free-text output into structured data, and handles OS-specific
// folder operations. The parsing grammar lives here so it can be unit
// tested without any process plumbing.
