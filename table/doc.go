// Package table builds side-by-side comparison tables of fitted regression
// models.
//
// Rows are coefficient names followed by summary-statistic rows; columns are
// model names in insertion order. Coefficient cells hold the rounded estimate
// followed by a significance marker:
//
//	***  p < 0.001
//	**   p < 0.01
//	*    p < 0.05
//
// A coefficient that a model does not estimate renders as an empty cell.
//
// # Building From Fitted Models
//
//	set := table.NewModelSet()
//	_ = set.Add("A", resA)
//	_ = set.Add("B", resB)
//	t, err := table.Build(set, nil)
//	fmt.Println(t)
//
// # Building From Formulas
//
//	specs := []table.Spec{
//	    {Name: "A", Formula: "y ~ x"},
//	    {Name: "B", Formula: "y ~ x + z"},
//	}
//	t, err := table.BuildFromSpecs(specs, data, nil)
//
// Formulas are fit by OLS with HC3 standard errors unless Options.CovType
// says otherwise.
//
// # Output
//
// A Table renders as a terminal table (String), CSV (WriteCSV) or an XLSX
// workbook (WriteXLSX).
package table
