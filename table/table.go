package table

// CellKind says what a cell holds.
type CellKind int

const (
	EmptyCell       CellKind = iota // coefficient not estimated by the model
	CoefficientCell                 // rounded estimate plus significance marker
	StatisticCell                   // rounded summary statistic
)

func (k CellKind) String() string {
	switch k {
	case CoefficientCell:
		return "coefficient"
	case StatisticCell:
		return "statistic"
	}
	return "empty"
}

// Cell is one entry of a Table.
type Cell struct {
	Kind   CellKind
	Text   string  // Rendered form
	Value  float64 // Rounded value; zero for empty cells
	PValue float64 // Coefficient cells only
	Marker string  // Coefficient cells only
}

func (c Cell) String() string {
	return c.Text
}

// Table is a model comparison table. Every row/column pair has a cell.
type Table struct {
	rows     []string
	columns  []string
	numCoefs int
	cells    [][]Cell
	rowIndex map[string]int
	colIndex map[string]int
}

func newTable(coefs []string, stats []StatisticRow, columns []string) *Table {
	t := &Table{
		columns:  columns,
		numCoefs: len(coefs),
		rowIndex: make(map[string]int, len(coefs)+len(stats)),
		colIndex: make(map[string]int, len(columns)),
	}
	t.rows = append(t.rows, coefs...)
	for _, s := range stats {
		t.rows = append(t.rows, s.Label)
	}
	for i, r := range t.rows {
		t.rowIndex[r] = i
	}
	for j, c := range columns {
		t.colIndex[c] = j
	}
	t.cells = make([][]Cell, len(t.rows))
	for i := range t.cells {
		t.cells[i] = make([]Cell, len(columns))
	}
	return t
}

// Rows returns the row labels: coefficients, then statistics.
func (t *Table) Rows() []string {
	out := make([]string, len(t.rows))
	copy(out, t.rows)
	return out
}

// Columns returns the model names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// CoefficientRows returns the number of leading coefficient rows.
func (t *Table) CoefficientRows() int {
	return t.numCoefs
}

// Cell looks up a cell by row label and model name.
func (t *Table) Cell(row, column string) (Cell, bool) {
	i, ok := t.rowIndex[row]
	if !ok {
		return Cell{}, false
	}
	j, ok := t.colIndex[column]
	if !ok {
		return Cell{}, false
	}
	return t.cells[i][j], true
}

// At returns the cell at row i, column j.
func (t *Table) At(i, j int) Cell {
	return t.cells[i][j]
}
