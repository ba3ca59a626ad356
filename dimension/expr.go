package dimension

import (
	"github.com/jfburr/metabase/mbql"
	"github.com/jfburr/metabase/metadata"
)

// ExpressionDimension references a named custom expression defined on the
// owning query. It has no field metadata backing; the literal name serves as
// both column name and display name.
type ExpressionDimension struct {
	base
	name string
}

func parseExpression(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "expression" || len(c) != 2 {
		return nil
	}
	name, ok := mbql.String(c[1])
	if !ok {
		return nil
	}
	return &ExpressionDimension{newBase(nil, md, qc), name}
}

func (d *ExpressionDimension) Variant() Variant { return Expression }

func (d *ExpressionDimension) Name() string { return d.name }

func (d *ExpressionDimension) Clause() mbql.Clause {
	return mbql.New("expression", d.name)
}

func (d *ExpressionDimension) Field() *metadata.Field {
	return &metadata.Field{Name: d.name, DisplayName: d.name, BaseType: metadata.TypeFloat}
}

func (d *ExpressionDimension) BaseDimension() Dimension { return d }
func (d *ExpressionDimension) DisplayName() string { return d.name }
func (d *ExpressionDimension) ColumnName() string { return d.name }

// Icon is fixed to the numeric category regardless of the expression's real
// computed type; a known simplification.
func (d *ExpressionDimension) Icon() string { return "int" }

func (d *ExpressionDimension) Render() []Segment { return renderChain(d) }

func (d *ExpressionDimension) Column() metadata.Column {
	return metadata.Column{
		Name:        d.name,
		DisplayName: d.name,
		BaseType:    metadata.TypeFloat,
		Source:      metadata.ColumnSourceFields,
	}
}

func (d *ExpressionDimension) SubDisplayName() string { return d.subName }
func (d *ExpressionDimension) SubTriggerDisplayName() string { return d.subTriggerName }

func (d *ExpressionDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}

// AggregationDimension references an aggregation of the owning query by its
// position in the query's aggregation list.
type AggregationDimension struct {
	base
	index int
}

func parseAggregation(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "aggregation" || len(c) != 2 {
		return nil
	}
	index, ok := mbql.Int(c[1])
	if !ok {
		return nil
	}
	return &AggregationDimension{newBase(nil, md, qc), index}
}

func (d *AggregationDimension) Variant() Variant { return Aggregation }

func (d *AggregationDimension) Index() int { return d.index }

func (d *AggregationDimension) Clause() mbql.Clause {
	return mbql.New("aggregation", d.index)
}

// aggregation looks up the referenced clause in the owning query, or nil if
// there is no query context or the index is out of range.
func (d *AggregationDimension) aggregation() mbql.Clause {
	if d.qc == nil {
		return nil
	}
	aggs := d.qc.Aggregations()
	if d.index < 0 || d.index >= len(aggs) {
		return nil
	}
	return aggs[d.index]
}

// operator unwraps a "named" aggregation into its underlying operator clause
// and the user-given name. A named clause missing either operand is treated
// as unresolved rather than surfacing the named tag itself.
func (d *AggregationDimension) operator() (mbql.Clause, string) {
	agg := d.aggregation()
	if agg.Tag() == "named" {
		if len(agg) < 3 {
			return nil, ""
		}
		op, _ := agg[1].(mbql.Clause)
		name, _ := mbql.String(agg[2])
		return op, name
	}
	return agg, ""
}

// ColumnName returns the user-given name if the aggregation is named, else
// the operator's short name. A distinct aggregation's result column comes
// back named count.
func (d *AggregationDimension) ColumnName() string {
	op, name := d.operator()
	if name != "" {
		return name
	}
	short := op.Tag()
	if short == "distinct" {
		return "count"
	}
	return short
}

func (d *AggregationDimension) DisplayName() string {
	name := d.ColumnName()
	if name == "" {
		return "[Unknown]"
	}
	return metadata.Humanize(name)
}

// FieldDimension extracts the operator's single field-valued operand as a
// dimension, or nil when the aggregation takes no field (e.g. bare count).
func (d *AggregationDimension) FieldDimension() Dimension {
	op, _ := d.operator()
	if len(op) != 2 {
		return nil
	}
	return Parse(op[1], d.md, d.qc)
}

func (d *AggregationDimension) Field() *metadata.Field {
	if fd := d.FieldDimension(); fd != nil {
		return fd.Field()
	}
	return metadata.PlaceholderField(0)
}

func (d *AggregationDimension) BaseDimension() Dimension { return d }
func (d *AggregationDimension) Icon() string { return "int" }
func (d *AggregationDimension) Render() []Segment { return renderChain(d) }

func (d *AggregationDimension) Column() metadata.Column {
	op, _ := d.operator()
	baseType := metadata.TypeFloat
	if isCountOperator(op.Tag()) {
		baseType = metadata.TypeInteger
	}
	return metadata.Column{
		Name:        d.ColumnName(),
		DisplayName: d.DisplayName(),
		BaseType:    baseType,
		Source:      metadata.ColumnSourceAggregation,
	}
}

func (d *AggregationDimension) SubDisplayName() string { return d.subName }
func (d *AggregationDimension) SubTriggerDisplayName() string { return d.subTriggerName }

func (d *AggregationDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}

// isCountOperator reports whether the operator's result column counts rows,
// making its type Integer rather than Float.
func isCountOperator(name string) bool {
	switch name {
	case "count", "cum-count", "distinct":
		return true
	}
	return false
}
