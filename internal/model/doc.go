package model

// Package model defines domain data structures used across the app: stream
// catalogs produced by analysis, download/conversion jobs, video metadata,
// probe results, and persisted history entries. Structures are designed for
// direct binding in the UI and explicit state transitions.
