package models

// OCRBlock is a single recognized text span with confidence and a
// normalized bounding box. The recognition engine's emission order is
// preserved in Order but is not reading order.
type OCRBlock struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0 - 1.0
	X          float64 `json:"x"`          // page-fraction coordinates in [0,1]
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Order      int     `json:"order"`
}

// OCRPage holds the recognized blocks of one page.
type OCRPage struct {
	PageIndex int        `json:"page_index"` // 0-based
	Blocks    []OCRBlock `json:"blocks"`
}
