// Package journal persists a record of completed rolls in SQLite so an
// interrupted batch can be rerun without reprocessing finished work.
package journal
