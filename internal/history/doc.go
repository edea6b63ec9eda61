// Package history persists the record of completed downloads as a JSON
// file in the user's configuration directory.
package history
