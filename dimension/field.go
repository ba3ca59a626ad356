package dimension

import (
	"strings"

	"github.com/jfburr/metabase/mbql"
	"github.com/jfburr/metabase/metadata"
)

// FieldIDDimension references a column by its catalog id. The legacy bare
// integer shorthand parses to the same dimension and reserializes to the
// tagged form.
type FieldIDDimension struct {
	base
	id int
}

func parseFieldID(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	if id, ok := mbql.Int(expr); ok {
		return &FieldIDDimension{newBase(nil, md, qc), id}
	}
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "field-id" || len(c) != 2 {
		return nil
	}
	id, ok := mbql.Int(c[1])
	if !ok {
		return nil
	}
	return &FieldIDDimension{newBase(nil, md, qc), id}
}

func (d *FieldIDDimension) Variant() Variant { return FieldID }

func (d *FieldIDDimension) FieldID() int { return d.id }

func (d *FieldIDDimension) Clause() mbql.Clause {
	return mbql.New("field-id", d.id)
}

func (d *FieldIDDimension) Field() *metadata.Field {
	if f := d.md.Field(d.id); f != nil {
		return f
	}
	return metadata.PlaceholderField(d.id)
}

func (d *FieldIDDimension) BaseDimension() Dimension { return d }
func (d *FieldIDDimension) DisplayName() string { return d.Field().Label() }
func (d *FieldIDDimension) ColumnName() string { return d.Field().Name }
func (d *FieldIDDimension) Icon() string { return d.Field().Icon() }
func (d *FieldIDDimension) Render() []Segment { return renderChain(d) }
func (d *FieldIDDimension) Column() metadata.Column { return columnOf(d) }

func (d *FieldIDDimension) SubDisplayName() string {
	if d.subName != "" {
		return d.subName
	}
	return "Default"
}

func (d *FieldIDDimension) SubTriggerDisplayName() string { return d.subTriggerName }

func (d *FieldIDDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}

// FieldLiteralDimension references a column of a source sub-query by name
// rather than by catalog id.
type FieldLiteralDimension struct {
	base
	name     string
	baseType metadata.BaseType
}

func parseFieldLiteral(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "field-literal" || len(c) != 3 {
		return nil
	}
	name, ok := mbql.String(c[1])
	if !ok {
		return nil
	}
	baseType, ok := mbql.String(c[2])
	if !ok {
		return nil
	}
	return &FieldLiteralDimension{newBase(nil, md, qc), name, metadata.BaseType(baseType)}
}

func (d *FieldLiteralDimension) Variant() Variant { return FieldLiteral }

func (d *FieldLiteralDimension) Clause() mbql.Clause {
	return mbql.New("field-literal", d.name, string(d.baseType))
}

// Field resolves through the source query's produced columns by name; with
// no query context it synthesizes a literal placeholder whose display name
// is the literal name.
func (d *FieldLiteralDimension) Field() *metadata.Field {
	if cd := d.ColumnDimension(); cd != nil {
		return cd.Field()
	}
	return metadata.LiteralField(d.name, d.baseType)
}

// ColumnDimension maps the literal name to the matching dimension among the
// source query's own output columns, aligned by position with the source
// query's column name list. The first matching name wins.
func (d *FieldLiteralDimension) ColumnDimension() Dimension {
	if d.qc == nil {
		return nil
	}
	src := d.qc.SourceQuery()
	if src == nil {
		return nil
	}
	clauses := src.ColumnClauses()
	for i, name := range src.ColumnNames() {
		if name == d.name && i < len(clauses) {
			return Parse(clauses[i], d.md, src)
		}
	}
	return nil
}

func (d *FieldLiteralDimension) BaseDimension() Dimension { return d }
func (d *FieldLiteralDimension) DisplayName() string { return d.Field().Label() }
func (d *FieldLiteralDimension) ColumnName() string { return d.name }
func (d *FieldLiteralDimension) Icon() string { return d.Field().Icon() }
func (d *FieldLiteralDimension) Render() []Segment { return renderChain(d) }
func (d *FieldLiteralDimension) Column() metadata.Column { return columnOf(d) }

func (d *FieldLiteralDimension) SubDisplayName() string {
	if d.subName != "" {
		return d.subName
	}
	return "Default"
}

func (d *FieldLiteralDimension) SubTriggerDisplayName() string { return d.subTriggerName }

func (d *FieldLiteralDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}

// ForeignKeyDimension references a column of another table reached through a
// foreign key. The parent is the foreign-key field on the source table; the
// destination is the referenced column.
type ForeignKeyDimension struct {
	base
	dest Dimension
}

func parseForeignKey(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "fk->" || len(c) != 3 {
		return nil
	}
	parent := Parse(c[1], md, qc)
	dest := Parse(c[2], md, qc)
	if parent == nil || dest == nil {
		return nil
	}
	return &ForeignKeyDimension{newBase(parent, md, qc), dest}
}

func (d *ForeignKeyDimension) Variant() Variant { return ForeignKey }

// Destination returns the referenced column's dimension.
func (d *ForeignKeyDimension) Destination() Dimension { return d.dest }

func (d *ForeignKeyDimension) Clause() mbql.Clause {
	return mbql.New("fk->", d.parent.Clause(), d.dest.Clause())
}

func (d *ForeignKeyDimension) Field() *metadata.Field { return d.dest.Field() }
func (d *ForeignKeyDimension) BaseDimension() Dimension { return d }
func (d *ForeignKeyDimension) DisplayName() string { return d.Field().Label() }
func (d *ForeignKeyDimension) ColumnName() string { return d.Field().Name }
func (d *ForeignKeyDimension) Icon() string { return d.Field().Icon() }

func (d *ForeignKeyDimension) Render() []Segment {
	return []Segment{
		Text(stripIDSuffix(d.parent.Field().Label())),
		Connector(),
		Text(d.Field().Label()),
	}
}

func (d *ForeignKeyDimension) Column() metadata.Column {
	col := columnOf(d)
	col.FKFieldID = d.parent.Field().ID
	return col
}

func (d *ForeignKeyDimension) SubDisplayName() string {
	if d.subName != "" {
		return d.subName
	}
	return "Default"
}

func (d *ForeignKeyDimension) SubTriggerDisplayName() string { return d.subTriggerName }

func (d *ForeignKeyDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}

// foreignKeySubDimensions expands a field with a foreign-key target into one
// dimension per column of the target table.
func foreignKeySubDimensions(parent Dimension) []Dimension {
	if !isFieldReference(parent.Variant()) {
		return nil
	}
	target := parent.Field().TargetTable()
	if target == nil {
		return nil
	}
	dims := make([]Dimension, 0, len(target.Fields))
	for _, f := range target.Fields {
		dest := &FieldIDDimension{newBase(nil, parent.meta(), parent.qctx()), f.ID}
		dims = append(dims, &ForeignKeyDimension{newBase(parent, nil, nil), dest})
	}
	return dims
}

// stripIDSuffix drops a trailing " ID" from a foreign-key field's display
// name, so "Product ID" renders as "Product".
func stripIDSuffix(s string) string {
	if len(s) > 3 && strings.EqualFold(s[len(s)-3:], " id") {
		return strings.TrimRight(s[:len(s)-3], " ")
	}
	return s
}

// JoinedFieldDimension references a column of an explicitly joined table
// through the join's alias.
type JoinedFieldDimension struct {
	base
	alias string
}

func parseJoinedField(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "joined-field" || len(c) != 3 {
		return nil
	}
	alias, ok := mbql.String(c[1])
	if !ok {
		return nil
	}
	parent := Parse(c[2], md, qc)
	if parent == nil {
		return nil
	}
	return &JoinedFieldDimension{newBase(parent, md, qc), alias}
}

func (d *JoinedFieldDimension) Variant() Variant { return JoinedField }

func (d *JoinedFieldDimension) JoinAlias() string { return d.alias }

func (d *JoinedFieldDimension) Clause() mbql.Clause {
	return mbql.New("joined-field", d.alias, d.parent.Clause())
}

func (d *JoinedFieldDimension) Field() *metadata.Field { return d.parent.Field() }
func (d *JoinedFieldDimension) BaseDimension() Dimension { return d }
func (d *JoinedFieldDimension) DisplayName() string { return d.Field().Label() }
func (d *JoinedFieldDimension) ColumnName() string { return d.Field().Name }
func (d *JoinedFieldDimension) Icon() string { return d.Field().Icon() }
func (d *JoinedFieldDimension) Render() []Segment { return renderChain(d) }
func (d *JoinedFieldDimension) Column() metadata.Column { return columnOf(d) }

func (d *JoinedFieldDimension) SubDisplayName() string {
	if d.subName != "" {
		return d.subName
	}
	return "Default"
}

func (d *JoinedFieldDimension) SubTriggerDisplayName() string { return d.subTriggerName }

func (d *JoinedFieldDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}
