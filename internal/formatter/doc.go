// package formatter renders tables and run records for files and the console.
//
// CSV output follows the conventions analysts expect from dataframe exports: empty cells for missing values,
// date-only timestamps when a column holds only midnights, floats with a trailing ".0" when integral, and
// True/False booleans. Console output is drawn with lipgloss tables.
package formatter
