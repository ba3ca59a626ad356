package dimension

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/jfburr/metabase/mbql"
	"github.com/jfburr/metabase/metadata"
)

// BucketingUnits is the ordered catalog of time granularities offered as
// sub-dimensions of a date or datetime field.
var BucketingUnits = []string{
	"minute",
	"hour",
	"day",
	"week",
	"month",
	"quarter",
	"year",
	"minute-of-hour",
	"hour-of-day",
	"day-of-week",
	"day-of-month",
	"week-of-year",
	"month-of-year",
	"quarter-of-year",
}

// DatetimeBucketDimension wraps a date or datetime field dimension with a
// time granularity. Bucketing is transparent to what underlying column the
// dimension refers to.
type DatetimeBucketDimension struct {
	base
	unit string
}

func parseDatetimeBucket(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "datetime-field" {
		return nil
	}
	var unit string
	switch len(c) {
	case 3:
		unit, ok = mbql.String(c[2])
	case 4:
		// Deprecated ["datetime-field", ref, "of", unit] form; normalized to
		// the three-element form on reserialization.
		var marker string
		if marker, ok = mbql.String(c[2]); !ok || marker != "of" {
			return nil
		}
		unit, ok = mbql.String(c[3])
	default:
		return nil
	}
	if !ok {
		return nil
	}
	parent := Parse(c[1], md, qc)
	if parent == nil {
		return nil
	}
	return &DatetimeBucketDimension{newBase(parent, md, qc), unit}
}

func (d *DatetimeBucketDimension) Variant() Variant { return DatetimeBucket }

func (d *DatetimeBucketDimension) Unit() string { return d.unit }

func (d *DatetimeBucketDimension) Clause() mbql.Clause {
	return mbql.New("datetime-field", d.parent.Clause(), d.unit)
}

func (d *DatetimeBucketDimension) Field() *metadata.Field { return fieldFromParent(d) }
func (d *DatetimeBucketDimension) BaseDimension() Dimension { return d.parent.BaseDimension() }
func (d *DatetimeBucketDimension) DisplayName() string { return d.Field().Label() }
func (d *DatetimeBucketDimension) ColumnName() string { return d.Field().Name }
func (d *DatetimeBucketDimension) Icon() string { return "calendar" }

func (d *DatetimeBucketDimension) SubDisplayName() string {
	if d.subName != "" {
		return d.subName
	}
	return FormatBucketing(d.unit)
}

func (d *DatetimeBucketDimension) SubTriggerDisplayName() string {
	if d.subTriggerName != "" {
		return d.subTriggerName
	}
	return "by " + strings.ToLower(FormatBucketing(d.unit))
}

func (d *DatetimeBucketDimension) Render() []Segment {
	return append(renderChain(d), Text(": "+d.SubDisplayName()))
}

func (d *DatetimeBucketDimension) Column() metadata.Column { return columnOf(d) }

func (d *DatetimeBucketDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}

// datetimeSubDimensions buckets a date-typed plain field or foreign-key
// dimension by every supported unit, in catalog order.
func datetimeSubDimensions(parent Dimension) []Dimension {
	if !isBucketableReference(parent.Variant()) || !parent.Field().IsDate() {
		return nil
	}
	dims := make([]Dimension, 0, len(BucketingUnits))
	for _, unit := range BucketingUnits {
		dims = append(dims, &DatetimeBucketDimension{newBase(parent, nil, nil), unit})
	}
	return dims
}

// datetimeDefaultDimension buckets a date-typed field by its designated
// default unit.
func datetimeDefaultDimension(parent Dimension) Dimension {
	if !isBucketableReference(parent.Variant()) || !parent.Field().IsDate() {
		return nil
	}
	unit := parent.Field().DefaultUnit
	if unit == "" {
		unit = "day"
	}
	return &DatetimeBucketDimension{newBase(parent, nil, nil), unit}
}

// FormatBucketing turns a unit name into its display form, e.g.
// "day-of-week" becomes "Day of Week".
func FormatBucketing(unit string) string {
	words := strings.Split(unit, "-")
	for i, w := range words {
		if w == "of" || w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Binning strategies.
const (
	BinningNumBins  = "num-bins"
	BinningBinWidth = "bin-width"
	BinningDefault  = "default"
)

// BinningDimension wraps a continuous field dimension with a numeric
// grouping strategy. Sub-dimension enumeration is intentionally empty at
// this layer; binning options come from the field's own option catalog.
type BinningDimension struct {
	base
	strategy string
	args     []any
}

func parseBinning(expr any, md *metadata.Metadata, qc metadata.Query) Dimension {
	c, ok := expr.(mbql.Clause)
	if !ok || c.Tag() != "binning-strategy" || len(c) < 3 {
		return nil
	}
	strategy, ok := mbql.String(c[2])
	if !ok {
		return nil
	}
	parent := Parse(c[1], md, qc)
	if parent == nil {
		return nil
	}
	return &BinningDimension{newBase(parent, md, qc), strategy, c[3:]}
}

func (d *BinningDimension) Variant() Variant { return Binning }

func (d *BinningDimension) Strategy() string { return d.strategy }

func (d *BinningDimension) Clause() mbql.Clause {
	c := mbql.New("binning-strategy", d.parent.Clause(), d.strategy)
	return append(c, d.args...)
}

func (d *BinningDimension) Field() *metadata.Field { return fieldFromParent(d) }
func (d *BinningDimension) BaseDimension() Dimension { return d.parent.BaseDimension() }
func (d *BinningDimension) DisplayName() string { return d.Field().Label() }
func (d *BinningDimension) ColumnName() string { return d.Field().Name }
func (d *BinningDimension) Icon() string { return d.Field().Icon() }

func (d *BinningDimension) SubDisplayName() string {
	if d.subName != "" {
		return d.subName
	}
	return d.strategyLabel()
}

func (d *BinningDimension) SubTriggerDisplayName() string {
	if d.subTriggerName != "" {
		return d.subTriggerName
	}
	return d.strategyLabel()
}

func (d *BinningDimension) strategyLabel() string {
	switch d.strategy {
	case BinningNumBins:
		n, _ := mbql.Int(d.arg(0))
		return english.Plural(n, "bin", "")
	case BinningBinWidth:
		label := formatNumber(d.arg(0))
		if d.Field().IsCoordinate() {
			label += "°"
		}
		return label
	default:
		return "Auto binned"
	}
}

func (d *BinningDimension) arg(i int) any {
	if i >= len(d.args) {
		return nil
	}
	return d.args[i]
}

func (d *BinningDimension) Render() []Segment {
	return append(renderChain(d), Text(": "+d.SubDisplayName()))
}

func (d *BinningDimension) Column() metadata.Column { return columnOf(d) }

func (d *BinningDimension) labeled(name string) Dimension {
	e := *d
	e.setLabels(name)
	return &e
}

func formatNumber(v any) string {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
