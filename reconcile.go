package colmatch

import (
	"github.com/nao1215/colmatch/domain/model"
)

// Reconcile splits header into the columns the schema knows and the rest.
// Both lists keep header order.
func Reconcile(header model.Header, schema model.Schema) model.Reconciliation {
	var r model.Reconciliation
	for _, name := range header {
		if schema.Contains(name) {
			r.Existing = append(r.Existing, name)
		} else {
			r.NotExisting = append(r.NotExisting, name)
		}
	}
	return r
}

// Project reconciles t against schema and returns the output table: the
// known columns only, in schema order, rows in source order. When nothing
// matches the output table has rows but no columns; callers that need
// columns check Reconciliation.Matched.
func Project(t *model.Table, schema model.Schema) (*model.Table, model.Reconciliation, error) {
	r := Reconcile(t.Header(), schema)

	out, err := t.Project(schema.Order(r.Existing))
	if err != nil {
		return nil, r, err
	}
	return out, r, nil
}
