package metadata

import (
	"github.com/jfburr/metabase/mbql"
)

// A DimensionOption is an externally supplied template for deriving a more
// specific dimension from a field. MBQL is the template clause whose second
// element is a placeholder replaced by the field's own canonical reference;
// Name is an optional human label stamped onto the derived dimension.
type DimensionOption struct {
	Name string      `json:"name,omitempty"`
	MBQL mbql.Clause `json:"mbql,omitempty"`
}

// A Field identifies one column of a table along with everything the query
// builder needs to present it: display name, type predicates, filter
// operators, and the catalog of sub-dimension options.
type Field struct {
	ID              int
	Name            string
	DisplayName     string
	BaseType        BaseType
	SpecialType     BaseType
	FKTargetFieldID int

	// DefaultUnit is the designated default time bucketing granularity for
	// date and datetime fields.
	DefaultUnit string

	DimensionOptions []DimensionOption
	DefaultOption    *DimensionOption

	table     *Table
	target    *Field
	operators []Operator
}

// Label returns the human-facing name of the field.
func (f *Field) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return Humanize(f.Name)
}

func (f *Field) Table() *Table { return f.table }

// Target returns the field this field's foreign key points at, or nil.
func (f *Field) Target() *Field { return f.target }

// TargetTable returns the table reached by following this field's foreign
// key, or nil if the field is not a resolvable foreign key.
func (f *Field) TargetTable() *Table {
	if f.target == nil {
		return nil
	}
	return f.target.table
}

func (f *Field) IsDate() bool {
	return f.BaseType.IsDate() || f.SpecialType.IsDate()
}

func (f *Field) IsCoordinate() bool {
	return f.BaseType.IsCoordinate() || f.SpecialType.IsCoordinate()
}

func (f *Field) IsNumeric() bool {
	return f.BaseType.IsNumeric()
}

func (f *Field) IsFK() bool {
	return f.FKTargetFieldID != 0 || f.SpecialType == TypeFK
}

func (f *Field) IsPK() bool {
	return f.SpecialType == TypePK
}

// IsSummable reports whether the field's values can meaningfully be summed,
// i.e. it is a plain numeric measure rather than a key.
func (f *Field) IsSummable() bool {
	return f.IsNumeric() && !f.IsPK() && !f.IsFK()
}

// Operators returns the filter operators valid for this field, most
// applicable first.
func (f *Field) Operators() []Operator {
	if f.operators != nil {
		return f.operators
	}
	switch {
	case f.IsDate():
		return dateOperators
	case f.IsCoordinate():
		return coordinateOperators
	case f.IsNumeric():
		return numberOperators
	case f.BaseType == TypeBoolean:
		return booleanOperators
	default:
		return defaultOperators
	}
}

// Aggregations returns the aggregation operators valid for this field, most
// applicable first. An empty list means the field cannot be aggregated
// directly.
func (f *Field) Aggregations() []Operator {
	switch {
	case f.IsSummable():
		return summableAggregations
	case f.IsPK() || f.IsFK():
		return keyAggregations
	default:
		return defaultAggregations
	}
}

// Icon returns the icon-category tag for the field's type.
func (f *Field) Icon() string {
	switch {
	case f.IsDate():
		return "calendar"
	case f.IsCoordinate():
		return "location"
	case f.IsNumeric():
		return "int"
	case f.BaseType == TypeText:
		return "string"
	default:
		return "unknown"
	}
}

// PlaceholderField synthesizes a stand-in for a field id missing from the
// registry so display code never faces a missing object.
func PlaceholderField(id int) *Field {
	return &Field{ID: id}
}

// LiteralField synthesizes metadata for a field literal that cannot be
// resolved through a source query. Its display name is the literal name and
// equality is its only operator.
func LiteralField(name string, baseType BaseType) *Field {
	return &Field{
		Name:        name,
		DisplayName: name,
		BaseType:    baseType,
		operators:   []Operator{{Name: "=", Verbose: "Is"}},
	}
}

var (
	defaultOperators = []Operator{
		{Name: "=", Verbose: "Is"},
		{Name: "!=", Verbose: "Is not"},
		{Name: "contains", Verbose: "Contains"},
		{Name: "does-not-contain", Verbose: "Does not contain"},
		{Name: "starts-with", Verbose: "Starts with"},
		{Name: "ends-with", Verbose: "Ends with"},
		{Name: "is-null", Verbose: "Is empty"},
		{Name: "not-null", Verbose: "Not empty"},
	}
	numberOperators = []Operator{
		{Name: "=", Verbose: "Equal to"},
		{Name: "!=", Verbose: "Not equal to"},
		{Name: ">", Verbose: "Greater than"},
		{Name: "<", Verbose: "Less than"},
		{Name: "between", Verbose: "Between"},
		{Name: ">=", Verbose: "Greater than or equal to"},
		{Name: "<=", Verbose: "Less than or equal to"},
		{Name: "is-null", Verbose: "Is empty"},
		{Name: "not-null", Verbose: "Not empty"},
	}
	dateOperators = []Operator{
		{Name: "=", Verbose: "Is"},
		{Name: "<", Verbose: "Before"},
		{Name: ">", Verbose: "After"},
		{Name: "between", Verbose: "Between"},
		{Name: "is-null", Verbose: "Is empty"},
		{Name: "not-null", Verbose: "Not empty"},
	}
	coordinateOperators = []Operator{
		{Name: "=", Verbose: "Is"},
		{Name: "!=", Verbose: "Is not"},
		{Name: "inside", Verbose: "Inside"},
		{Name: ">", Verbose: "Greater than"},
		{Name: "<", Verbose: "Less than"},
		{Name: "between", Verbose: "Between"},
	}
	booleanOperators = []Operator{
		{Name: "=", Verbose: "Is"},
		{Name: "is-null", Verbose: "Is empty"},
		{Name: "not-null", Verbose: "Not empty"},
	}
)

var (
	summableAggregations = []Operator{
		{Name: "sum", Verbose: "Sum"},
		{Name: "avg", Verbose: "Average"},
		{Name: "distinct", Verbose: "Number of distinct values"},
		{Name: "cum-sum", Verbose: "Cumulative sum"},
		{Name: "min", Verbose: "Minimum"},
		{Name: "max", Verbose: "Maximum"},
	}
	keyAggregations = []Operator{
		{Name: "distinct", Verbose: "Number of distinct values"},
	}
	defaultAggregations = []Operator{
		{Name: "distinct", Verbose: "Number of distinct values"},
		{Name: "min", Verbose: "Minimum"},
		{Name: "max", Verbose: "Maximum"},
	}
)
