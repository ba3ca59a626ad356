package metadata

// A Table is a named collection of fields.
type Table struct {
	ID          int
	Name        string
	DisplayName string
	Fields      []*Field
}

// Label returns the human-facing name of the table.
func (t *Table) Label() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return Humanize(t.Name)
}

// Field looks up a field of the table by column name.
func (t *Table) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Metadata is the registry mapping opaque field and table identifiers to
// their entities. It is read-only once constructed.
type Metadata struct {
	tables map[int]*Table
	fields map[int]*Field
}

// New builds a registry from tables, wiring each field to its table and
// resolving foreign-key targets across all of them.
func New(tables ...*Table) *Metadata {
	m := &Metadata{
		tables: make(map[int]*Table),
		fields: make(map[int]*Field),
	}
	for _, t := range tables {
		m.tables[t.ID] = t
		for _, f := range t.Fields {
			f.table = t
			m.fields[f.ID] = f
		}
	}
	for _, f := range m.fields {
		if f.FKTargetFieldID != 0 {
			f.target = m.fields[f.FKTargetFieldID]
		}
	}
	return m
}

// Field returns the field registered under id, or nil.
func (m *Metadata) Field(id int) *Field {
	if m == nil {
		return nil
	}
	return m.fields[id]
}

// Table returns the table registered under id, or nil.
func (m *Metadata) Table(id int) *Table {
	if m == nil {
		return nil
	}
	return m.tables[id]
}
