// Package organizer computes and executes the rename/reorganization step.
//
// Planning and execution are deliberately split: the planner resolves every
// destination for a roll and rejects the roll on any collision before a
// single file moves, so a roll is either untouched or being committed. The
// executor then performs the moves (rename with a cross-device copy
// fallback) and removes emptied export directories after a reorg.
package organizer
