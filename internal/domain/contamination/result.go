package contamination

// Result is the validated classification for a single culture image. It is
// built fresh per request and returned to the caller as-is.
type Result struct {
	Contaminated bool    `json:"contaminated"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}
