// Package performance provides the performance record and the pipeline that builds it.
//
// A performance is one player's strokes-gained statistics for one tournament. The
// pipeline turns a scraped statistics table into a record in four steps: the HTML table
// is structured into a round -> stat -> text mapping, reduced to the strokes-gained
// whitelist, coerced to numbers, and paired with the start date parsed from the
// tournament's date-range text.
package performance
