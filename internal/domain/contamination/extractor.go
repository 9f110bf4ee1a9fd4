package contamination

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"

	"culturescan-server-go/internal/platform/errors"
)

const extractOp = "extract"

// diagnosticLimit bounds how much of the cleaned upstream text is echoed back
// in parse failure messages.
const diagnosticLimit = 200

// braceRe finds the first brace-delimited substring, tolerating one level of
// nested braces. Deeper nesting is not recovered.
var braceRe = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

// recoveryStrategy is one attempt at turning cleaned upstream text into a JSON
// object. Strategies run in order; the first success wins.
type recoveryStrategy struct {
	name   string
	decode func(string) (map[string]interface{}, bool)
}

var recoveryStrategies = []recoveryStrategy{
	{name: "strict", decode: decodeStrict},
	{name: "brace_scan", decode: decodeBraceScan},
}

// Extract reduces an untrusted upstream envelope to a validated Result. It
// descends to the first candidate text, strips markdown code fences, recovers
// a JSON object, validates field presence and types, and clamps confidence
// into [0.0, 1.0]. Every failure is an extraction kind error.
func Extract(env *Envelope) (*Result, error) {
	text, err := firstText(env)
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFences(strings.TrimSpace(text))

	fields, ok := recoverJSON(cleaned)
	if !ok {
		return nil, errors.New(errors.KindExtraction, extractOp,
			fmt.Sprintf("could not parse JSON from response: %s", truncate(cleaned, diagnosticLimit)))
	}

	return validate(fields)
}

func firstText(env *Envelope) (string, error) {
	if env == nil || len(env.Candidates) == 0 {
		return "", errors.New(errors.KindExtraction, extractOp, "no candidates in upstream response")
	}
	parts := env.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New(errors.KindExtraction, extractOp, "no parts in candidate content")
	}
	if parts[0].Text == "" {
		return "", errors.New(errors.KindExtraction, extractOp, "no text in response parts")
	}
	return parts[0].Text, nil
}

// stripCodeFences removes a leading ```json or ``` marker and a trailing ```
// marker. Models asked for bare JSON still wrap it in fences often enough
// that this is the common case, not the exception.
func stripCodeFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = text[7:]
	} else if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	return strings.TrimSpace(text)
}

func recoverJSON(cleaned string) (map[string]interface{}, bool) {
	for _, strategy := range recoveryStrategies {
		if fields, ok := strategy.decode(cleaned); ok {
			return fields, true
		}
	}
	return nil, false
}

func decodeStrict(text string) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := sonic.Unmarshal([]byte(text), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func decodeBraceScan(text string) (map[string]interface{}, bool) {
	match := braceRe.FindString(text)
	if match == "" {
		return nil, false
	}
	return decodeStrict(match)
}

func validate(fields map[string]interface{}) (*Result, error) {
	for _, name := range []string{"contaminated", "confidence", "reason"} {
		if _, ok := fields[name]; !ok {
			return nil, errors.New(errors.KindExtraction, extractOp,
				fmt.Sprintf("missing field: %s", name))
		}
	}

	contaminated, ok := fields["contaminated"].(bool)
	if !ok {
		return nil, errors.New(errors.KindExtraction, extractOp, "'contaminated' must be a boolean")
	}
	confidence, ok := fields["confidence"].(float64)
	if !ok {
		return nil, errors.New(errors.KindExtraction, extractOp, "'confidence' must be a number")
	}
	reason, ok := fields["reason"].(string)
	if !ok {
		return nil, errors.New(errors.KindExtraction, extractOp, "'reason' must be a string")
	}

	return &Result{
		Contaminated: contaminated,
		Confidence:   clampConfidence(confidence),
		Reason:       reason,
	}, nil
}

// clampConfidence forces out-of-range values to the nearest boundary instead
// of rejecting them.
func clampConfidence(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
