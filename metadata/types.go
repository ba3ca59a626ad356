// Package metadata models the catalog entities that dimensions resolve
// against: databases' tables and fields, the operators and options a field
// supports, and the slice of an owning query that resolution needs.
package metadata

// A BaseType tags a field or column with its value domain.
type BaseType string

const (
	TypeInteger    BaseType = "type/Integer"
	TypeBigInteger BaseType = "type/BigInteger"
	TypeFloat      BaseType = "type/Float"
	TypeDecimal    BaseType = "type/Decimal"
	TypeText       BaseType = "type/Text"
	TypeBoolean    BaseType = "type/Boolean"
	TypeDate       BaseType = "type/Date"
	TypeTime       BaseType = "type/Time"
	TypeDateTime   BaseType = "type/DateTime"
	TypeLatitude   BaseType = "type/Latitude"
	TypeLongitude  BaseType = "type/Longitude"
	TypeCoordinate BaseType = "type/Coordinate"
	TypeFK         BaseType = "type/FK"
	TypePK         BaseType = "type/PK"
)

func (t BaseType) IsDate() bool {
	switch t {
	case TypeDate, TypeDateTime:
		return true
	}
	return false
}

func (t BaseType) IsCoordinate() bool {
	switch t {
	case TypeLatitude, TypeLongitude, TypeCoordinate:
		return true
	}
	return false
}

func (t BaseType) IsNumeric() bool {
	switch t {
	case TypeInteger, TypeBigInteger, TypeFloat, TypeDecimal:
		return true
	}
	return false
}

// An Operator is a filter operator a field supports, identified by its short
// wire name.
type Operator struct {
	Name    string `json:"name"`
	Verbose string `json:"verbose_name,omitempty"`
}

// A Column describes one output column of a query, as consumed by
// result-table rendering.
type Column struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	BaseType    BaseType `json:"base_type"`
	Source      string   `json:"source,omitempty"`
	FieldID     int      `json:"id,omitempty"`
	FKFieldID   int      `json:"fk_field_id,omitempty"`
}

// Column sources.
const (
	ColumnSourceFields      = "fields"
	ColumnSourceAggregation = "aggregation"
)
