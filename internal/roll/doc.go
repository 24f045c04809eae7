// Package roll discovers scanner export roll directories and orders each
// roll's images into true physical frame sequence.
//
// The locator matches immediate children of the export root against the
// <order id><delimiter?><6-digit roll number> naming contract. The sequencer
// collects a roll's images recursively, validates every filename against the
// active generation profile (all-or-nothing per roll), and sorts either by
// plain filename comparison or, for half-frame rolls, by a fixed frame-token
// ranking table.
package roll
