// Package dataset provides the Frame type that holds the observations
// regression models are fit against.
//
// # Creating a Frame
//
// Build a frame column by column:
//
//	f := dataset.New()
//	f.AddNumeric("y", []float64{1.2, 2.3, 2.9})
//	f.AddNumeric("x", []float64{1, 2, 3})
//	f.AddCategorical("group", []string{"a", "b", "a"})
//
// Or from numeric slices in one call:
//
//	f, err := dataset.FromColumns([]string{"y", "x"}, [][]float64{y, x})
//
// # Loading from CSV
//
// Column types are inferred: a column whose non-missing cells all parse as
// numbers is numeric, anything else is categorical.
//
//	f, err := dataset.LoadCSV("wages.csv", nil)
//
//	opts := dataset.DefaultCSVOptions()
//	opts.Delimiter = ';'
//	opts.Columns = []string{"wage", "educ", "region"}
//	f, err := dataset.LoadCSVFromReader(r, opts)
//
// Cells equal to one of the NA tokens ("", "NA", "NaN", "null", ...) are
// missing: NaN in numeric columns, "" in categorical ones.
package dataset
