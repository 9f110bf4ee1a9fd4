package contamination

// Envelope mirrors the candidates/content/parts shape of the upstream vision
// model response. It is untrusted input: every level may be missing or empty.
type Envelope struct {
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	Content Content `json:"content"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

// RawText returns the first candidate text without any validation. Used for
// diagnostics when extraction fails; returns "" when the envelope is empty.
func (e *Envelope) RawText() string {
	if e == nil || len(e.Candidates) == 0 || len(e.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return e.Candidates[0].Content.Parts[0].Text
}
