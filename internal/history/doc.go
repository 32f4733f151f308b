// Package history manages the saved translation list: loading records in
// server order, deleting one or all of them, and the per-record clipboard
// and exclusive playback actions.
package history
