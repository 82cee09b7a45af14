package domain

import "errors"

// ErrEmptyTable is returned when the pipeline is invoked with no input rows.
// An upstream loader failure is a precondition failure, never a reason to
// produce an empty or partial result.
var ErrEmptyTable = errors.New("mobility table has no rows")

// TransformSeverity derives the continuous severity indices S1..S9 from the
// observation's raw ordinal policy codes. A raw value of 0 can mean either
// "no measure" or a reporting gap; the transform does not distinguish them.
// Gap zeros are repaired later by FillContinuity.
func TransformSeverity(o Observation) Observation {
	for _, ind := range Indicators() {
		code := o.Policy[ind-1]
		o.Severity[ind-1] = SeverityIndex(ind, code.Value, code.Flag)
	}
	return o
}

// TransformTable applies TransformSeverity to every row.
func TransformTable(t *Table) {
	for i := range t.Rows {
		t.Rows[i] = TransformSeverity(t.Rows[i])
	}
}
