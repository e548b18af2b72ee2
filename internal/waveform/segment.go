package waveform

// Segment is a labelled time span on the waveform.
type Segment struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	LabelText string  `json:"labelText"`
	Editable  bool    `json:"editable"`
}

// ExampleSegments are the segments seeded on every page load.
func ExampleSegments() []Segment {
	return []Segment{
		{StartTime: 0, EndTime: 3, LabelText: "A", Editable: true},
		{StartTime: 3.14, EndTime: 4.2, LabelText: "B", Editable: true},
	}
}
