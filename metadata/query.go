package metadata

import (
	"github.com/jfburr/metabase/mbql"
)

// Query is the slice of an owning query that dimension resolution needs:
// aggregations by index, the nested source query, the source table, and the
// aligned name/clause lists describing the columns the query produces.
type Query interface {
	Aggregations() []mbql.Clause
	SourceQuery() Query
	Table() *Table
	ColumnNames() []string
	ColumnClauses() []mbql.Clause
}

// A QueryContext is a concrete Query assembled from parts. The zero value is
// a query with no aggregations, no source, and no columns.
type QueryContext struct {
	Aggs        []mbql.Clause
	Source      *QueryContext
	SourceTable *Table
	Names       []string
	Clauses     []mbql.Clause
}

var _ Query = (*QueryContext)(nil)

func (q *QueryContext) Aggregations() []mbql.Clause {
	if q == nil {
		return nil
	}
	return q.Aggs
}

func (q *QueryContext) SourceQuery() Query {
	if q == nil || q.Source == nil {
		return nil
	}
	return q.Source
}

func (q *QueryContext) Table() *Table {
	if q == nil {
		return nil
	}
	return q.SourceTable
}

func (q *QueryContext) ColumnNames() []string {
	if q == nil {
		return nil
	}
	return q.Names
}

func (q *QueryContext) ColumnClauses() []mbql.Clause {
	if q == nil {
		return nil
	}
	return q.Clauses
}
