package metadata

import (
	"strings"
	"sync"
	"testing"

	"github.com/jfburr/metabase/mbql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"created_at", "Created At"},
		{"product-rating", "Product Rating"},
		{"count", "Count"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Humanize(c.in), "humanize: %q", c.in)
	}
}

// Humanize is called from concurrent request handlers, so it must not share
// transformer state across calls. Run under -race to verify.
func TestHumanizeConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "Created At", Humanize("created_at"))
			}
		}()
	}
	wg.Wait()
}

func TestFieldPredicates(t *testing.T) {
	date := &Field{Name: "created_at", BaseType: TypeDateTime}
	assert.True(t, date.IsDate())
	assert.False(t, date.IsCoordinate())
	assert.Equal(t, "calendar", date.Icon())

	lat := &Field{Name: "latitude", BaseType: TypeFloat, SpecialType: TypeLatitude}
	assert.True(t, lat.IsCoordinate())
	assert.True(t, lat.IsSummable())

	fk := &Field{Name: "product_id", BaseType: TypeInteger, SpecialType: TypeFK}
	assert.True(t, fk.IsFK())
	assert.False(t, fk.IsSummable())
}

func TestFieldLabel(t *testing.T) {
	named := &Field{Name: "total", DisplayName: "Order Total"}
	assert.Equal(t, "Order Total", named.Label())
	plain := &Field{Name: "tax_rate"}
	assert.Equal(t, "Tax Rate", plain.Label())
}

func TestOperators(t *testing.T) {
	date := &Field{BaseType: TypeDateTime}
	assert.Equal(t, "=", date.Operators()[0].Name)

	num := &Field{BaseType: TypeFloat}
	names := make([]string, 0)
	for _, op := range num.Operators() {
		names = append(names, op.Name)
	}
	assert.Contains(t, names, "between")

	lit := LiteralField("ghost", TypeText)
	require.Len(t, lit.Operators(), 1)
	assert.Equal(t, "=", lit.Operators()[0].Name)
	assert.Equal(t, "ghost", lit.Label())
}

func TestRegistryWiring(t *testing.T) {
	orders := &Table{
		ID:   1,
		Name: "orders",
		Fields: []*Field{
			{ID: 10, Name: "product_id", BaseType: TypeInteger, FKTargetFieldID: 20},
		},
	}
	products := &Table{
		ID:   2,
		Name: "products",
		Fields: []*Field{
			{ID: 20, Name: "id", BaseType: TypeBigInteger, SpecialType: TypePK},
		},
	}
	m := New(orders, products)

	f := m.Field(10)
	require.NotNil(t, f)
	assert.Same(t, orders, f.Table())
	require.NotNil(t, f.Target())
	assert.Equal(t, 20, f.Target().ID)
	assert.Same(t, products, f.TargetTable())

	assert.Nil(t, m.Field(999))
	assert.Nil(t, (*Metadata)(nil).Field(10))
}

func TestLoadYAML(t *testing.T) {
	const fixture = `
tables:
  - id: 1
    name: orders
    fields:
      - id: 5
        name: created_at
        base_type: type/DateTime
        default_unit: month
        default_dimension_option:
          mbql: ["datetime-field", null, "day"]
      - id: 7
        name: total
        base_type: type/Float
        dimension_options:
          - name: "10 bins"
            mbql: ["binning-strategy", null, "num-bins", 10]
      - id: 10
        name: product_id
        base_type: type/Integer
        special_type: type/FK
        fk_target_field_id: 20
  - id: 2
    name: products
    fields:
      - id: 20
        name: id
        base_type: type/BigInteger
        special_type: type/PK
`
	m, err := LoadYAML(strings.NewReader(fixture))
	require.NoError(t, err)

	created := m.Field(5)
	require.NotNil(t, created)
	assert.Equal(t, "month", created.DefaultUnit)
	require.NotNil(t, created.DefaultOption)
	assert.Equal(t, mbql.Clause{"datetime-field", nil, "day"}, created.DefaultOption.MBQL)

	total := m.Field(7)
	require.Len(t, total.DimensionOptions, 1)
	assert.Equal(t, "10 bins", total.DimensionOptions[0].Name)
	assert.Equal(t,
		mbql.Clause{"binning-strategy", nil, "num-bins", 10},
		total.DimensionOptions[0].MBQL)

	assert.Same(t, m.Table(2), m.Field(10).TargetTable())
}

func TestLoadYAMLError(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("tables: [not a table"))
	assert.Error(t, err)
}

func TestQueryContext(t *testing.T) {
	var q *QueryContext
	assert.Nil(t, q.Aggregations())
	assert.Nil(t, q.SourceQuery())
	assert.Nil(t, q.Table())

	inner := &QueryContext{Names: []string{"total"}}
	outer := &QueryContext{Source: inner}
	require.NotNil(t, outer.SourceQuery())
	assert.Equal(t, []string{"total"}, outer.SourceQuery().ColumnNames())
}
