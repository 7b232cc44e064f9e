// Package dataset holds the input models consumed by the block helpers:
// tables for the table helper and notebooks for the jupyter helper.
//
// Template data usually arrives as generic decoded JSON, spreadsheet rows or
// database results. FromValue and NotebookFromValue accept those shapes and
// validate them, so helper code only ever deals with typed values.
package dataset
