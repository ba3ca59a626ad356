// Package dimension provides typed, navigable wrappers over the tagged
// expression trees a query builder uses for filters, breakouts, and
// groupings. Parse turns an untyped expression into one of a fixed set of
// variants; each variant serializes back to its canonical wire form and
// resolves against catalog metadata and an owning query context.
package dimension

import (
	"slices"

	"github.com/jfburr/metabase/mbql"
	"github.com/jfburr/metabase/metadata"
)

// A Variant identifies a concrete dimension grammar by its clause tag.
type Variant string

const (
	FieldID        Variant = "field-id"
	FieldLiteral   Variant = "field-literal"
	ForeignKey     Variant = "fk->"
	JoinedField    Variant = "joined-field"
	DatetimeBucket Variant = "datetime-field"
	Binning        Variant = "binning-strategy"
	Expression     Variant = "expression"
	Aggregation    Variant = "aggregation"
)

// Dimension is the contract shared by all variants. Values are immutable
// once returned; derivation helpers construct new values rather than
// mutating.
type Dimension interface {
	Variant() Variant
	// Clause returns the canonical wire form. Parsing the result yields a
	// dimension equal to this one.
	Clause() mbql.Clause
	// Parent is the dimension this one wraps, e.g. the raw field dimension
	// under a bucketed one. Nil for top-level field references.
	Parent() Dimension
	// BaseDimension strips bucketing and binning wrappers down to the
	// underlying plain field dimension.
	BaseDimension() Dimension
	// Field resolves the underlying column's metadata, degrading to a
	// synthesized placeholder when the catalog cannot supply it.
	Field() *metadata.Field
	DisplayName() string
	ColumnName() string
	SubDisplayName() string
	SubTriggerDisplayName() string
	Icon() string
	// Render produces the display segments for this dimension: the parent
	// chain's segments left to right, then this dimension's own.
	Render() []Segment
	// Column describes the output column this dimension produces.
	Column() metadata.Column

	meta() *metadata.Metadata
	qctx() metadata.Query
	labeled(name string) Dimension
}

// base is the payload common to every variant. The metadata and query
// references are inherited from the parent when not supplied directly.
type base struct {
	parent         Dimension
	md             *metadata.Metadata
	qc             metadata.Query
	subName        string
	subTriggerName string
}

func newBase(parent Dimension, md *metadata.Metadata, qc metadata.Query) base {
	if parent != nil {
		if md == nil {
			md = parent.meta()
		}
		if qc == nil {
			qc = parent.qctx()
		}
	}
	return base{parent: parent, md: md, qc: qc}
}

func (b *base) Parent() Dimension { return b.parent }
func (b *base) meta() *metadata.Metadata { return b.md }
func (b *base) qctx() metadata.Query { return b.qc }

// setLabels stamps the backend-provided option label; called exactly once,
// on a freshly parsed value, before it escapes the package.
func (b *base) setLabels(name string) {
	b.subName = name
	b.subTriggerName = name
}

// variantOps binds a variant's grammar matcher to its static derivation
// hooks.
type variantOps struct {
	variant Variant
	parse   func(expr any, md *metadata.Metadata, qc metadata.Query) Dimension
	subs    func(parent Dimension) []Dimension
	def     func(parent Dimension) Dimension
}

// registry lists the variants in dispatch order. The grammars are mutually
// exclusive by leading tag, so order is observable only for the bare legacy
// integer, which must resolve as a field id. Populated in init because the
// wrapper parsers recurse through Parse, which reads the registry.
var registry []variantOps

func init() {
	registry = []variantOps{
		{FieldID, parseFieldID, nil, nil},
		{FieldLiteral, parseFieldLiteral, nil, nil},
		{ForeignKey, parseForeignKey, foreignKeySubDimensions, nil},
		{JoinedField, parseJoinedField, nil, nil},
		{DatetimeBucket, parseDatetimeBucket, datetimeSubDimensions, datetimeDefaultDimension},
		{Binning, parseBinning, nil, nil},
		{Expression, parseExpression, nil, nil},
		{Aggregation, parseAggregation, nil, nil},
	}
}

// Parse converts an untyped expression into a typed dimension, trying each
// variant's grammar in registry order. A nil result means no variant
// matches; that is a normal outcome, not an error.
func Parse(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	expr = mbql.Normalize(expr)
	for _, ops := range registry {
		if d := ops.parse(expr, md, qc); d != nil {
			return d
		}
	}
	return nil
}

// IsEqual reports whether two dimensions or raw expressions resolve to the
// same canonical form. Either side may be a Dimension or an untyped
// expression; any failure to resolve yields false.
func IsEqual(a, b any) bool {
	da, db := coerce(a), coerce(b)
	if da == nil || db == nil {
		return false
	}
	return mbql.Equal(da.Clause(), db.Clause())
}

// IsSameBaseDimension reports whether two dimensions or raw expressions
// share the same underlying plain field dimension.
func IsSameBaseDimension(a, b any) bool {
	da, db := coerce(a), coerce(b)
	if da == nil || db == nil {
		return false
	}
	return mbql.Equal(da.BaseDimension().Clause(), db.BaseDimension().Clause())
}

func coerce(v any) Dimension {
	if d, ok := v.(Dimension); ok {
		return d
	}
	return Parse(v, nil, nil)
}

// isFieldReference reports whether a variant denotes a plain column
// reference, the precondition for foreign-key expansion.
func isFieldReference(v Variant) bool {
	switch v {
	case FieldID, FieldLiteral, ForeignKey, JoinedField:
		return true
	}
	return false
}

// isBucketableReference is the precondition for time bucketing: a bare field
// id or a foreign-key traversal, not an already bucketed or binned wrapper.
func isBucketableReference(v Variant) bool {
	return v == FieldID || v == ForeignKey
}

// SubDimensions enumerates the more specific dimensions derivable from d.
// When the field supplies its own option catalog and no variant restriction
// is given, the catalog wins; otherwise each requested variant's structural
// enumerator runs with d as parent.
func SubDimensions(d Dimension, variants ...Variant) []Dimension {
	if len(variants) == 0 {
		if opts := d.Field().DimensionOptions; len(opts) > 0 {
			dims := make([]Dimension, 0, len(opts))
			for i := range opts {
				if sub := dimensionForOption(d, &opts[i]); sub != nil {
					dims = append(dims, sub)
				}
			}
			return dims
		}
	}
	var dims []Dimension
	for _, ops := range registry {
		if ops.subs == nil || !variantRequested(ops.variant, variants) {
			continue
		}
		dims = append(dims, ops.subs(d)...)
	}
	return dims
}

// suppressServerDateDefaults keeps variant-level selection authoritative for
// date bucketing: a server-supplied default option that resolves to a
// datetime bucket is ignored and selection falls through to the variant
// defaults. Server-driven default bucketing is not yet treated as
// authoritative here.
const suppressServerDateDefaults = true

// DefaultDimension picks the preferred sub-dimension for d: the field's
// designated default option if one applies, else the first variant default
// in registry order, else nil.
func DefaultDimension(d Dimension, variants ...Variant) Dimension {
	if opt := d.Field().DefaultOption; opt != nil {
		if sub := dimensionForOption(d, opt); sub != nil {
			if _, isBucket := sub.(*DatetimeBucketDimension); !isBucket || !suppressServerDateDefaults {
				return sub
			}
		}
	}
	for _, ops := range registry {
		if ops.def == nil || !variantRequested(ops.variant, variants) {
			continue
		}
		if sub := ops.def(d); sub != nil {
			return sub
		}
	}
	return nil
}

func variantRequested(v Variant, requested []Variant) bool {
	return len(requested) == 0 || slices.Contains(requested, v)
}

// DefaultBreakout returns the canonical form to group by: the default
// sub-dimension's if one exists, else d's own.
func DefaultBreakout(d Dimension) mbql.Clause {
	if sub := DefaultDimension(d); sub != nil {
		return sub.Clause()
	}
	return d.Clause()
}

// DefaultAggregation pairs the field's first valid aggregation operator with
// this dimension, or returns nil if the field offers none.
func DefaultAggregation(d Dimension) mbql.Clause {
	aggs := d.Field().Aggregations()
	if len(aggs) == 0 {
		return nil
	}
	return mbql.New(aggs[0].Name, d.Clause())
}

// OperatorOptions returns the filter operators valid for d's underlying
// field.
func OperatorOptions(d Dimension) []metadata.Operator {
	return d.BaseDimension().Field().Operators()
}

// DefaultOperator returns the operator a filter on d starts from. Date
// fields get none; a date-aware picker owns that choice.
func DefaultOperator(d Dimension) string {
	f := d.BaseDimension().Field()
	if f.IsDate() {
		return ""
	}
	if ops := f.Operators(); len(ops) > 0 {
		return ops[0].Name
	}
	return ""
}

// dimensionForOption instantiates an option template by splicing the base
// dimension's canonical form in as the template's first argument and
// stamping the option's label, if any, onto the parsed result.
func dimensionForOption(d Dimension, opt *metadata.DimensionOption) Dimension {
	clause := d.Clause()
	if len(opt.MBQL) > 0 {
		spliced := make(mbql.Clause, 0, len(opt.MBQL))
		spliced = append(spliced, opt.MBQL[0], d.BaseDimension().Clause())
		if len(opt.MBQL) > 2 {
			spliced = append(spliced, opt.MBQL[2:]...)
		}
		clause = spliced
	}
	sub := Parse(clause, d.meta(), d.qctx())
	if sub == nil || opt.Name == "" {
		return sub
	}
	return sub.labeled(opt.Name)
}

// fieldFromParent resolves the field of a wrapper variant: the parent's
// field when a field-reference parent exists, else an empty placeholder.
func fieldFromParent(d Dimension) *metadata.Field {
	if p := d.Parent(); p != nil {
		return p.Field()
	}
	return metadata.PlaceholderField(0)
}

// renderChain is the default rendering: delegate to the parent if there is
// one, else a single text segment with the display name.
func renderChain(d Dimension) []Segment {
	if p := d.Parent(); p != nil {
		return p.Render()
	}
	return []Segment{Text(d.DisplayName())}
}

// columnOf builds the column descriptor shared by the field-reference
// variants.
func columnOf(d Dimension) metadata.Column {
	f := d.Field()
	return metadata.Column{
		Name:        f.Name,
		DisplayName: d.DisplayName(),
		BaseType:    f.BaseType,
		Source:      metadata.ColumnSourceFields,
		FieldID:     f.ID,
	}
}
