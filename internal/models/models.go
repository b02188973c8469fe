// Package models contains the value types shared by the import pipeline:
// parsed cells and records, the import configuration, normalized
// transactions and analysis results.
package models
