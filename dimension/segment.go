package dimension

import (
	"encoding/json"
	"fmt"
)

// A SegmentKind distinguishes plain text from the connector marker the
// rendering layer draws between a foreign key and its destination.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentConnector
)

func (k SegmentKind) String() string {
	if k == SegmentConnector {
		return "connector"
	}
	return "text"
}

func (k SegmentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *SegmentKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "text":
		*k = SegmentText
	case "connector":
		*k = SegmentConnector
	default:
		return fmt.Errorf("unknown segment kind: %s", s)
	}
	return nil
}

// A Segment is one element of a dimension's rendered label. The core never
// depends on any UI type; the rendering layer maps each segment to its
// visual form.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text,omitempty"`
}

func Text(s string) Segment {
	return Segment{Kind: SegmentText, Text: s}
}

func Connector() Segment {
	return Segment{Kind: SegmentConnector}
}
