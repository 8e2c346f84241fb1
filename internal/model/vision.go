package model

// VisionLocate is the parsed answer of the vision backend to an element
// location query. Coordinates are relative to the analyzed screenshot; the
// caller maps them to screen space with the screenshot's Bounds.
type VisionLocate struct {
	Found      bool    `json:"found"`
	XCenter    int     `json:"x_center"`
	YCenter    int     `json:"y_center"`
	XTopLeft   int     `json:"x_top_left"`
	YTopLeft   int     `json:"y_top_left"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence,omitempty"`
	Reasoning  string  `json:"reasoning,omitempty"`
}
