package scorer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	fenceOpenRe  = regexp.MustCompile("^```[a-zA-Z]*\n?")
	fenceCloseRe = regexp.MustCompile("```\\s*$")
	scoreRe      = regexp.MustCompile(`"score"\s*:\s*([0-9.]+)`)
	reasonRe     = regexp.MustCompile(`"reason"\s*:\s*"([^"]+)"`)
)

// parseScoreOutput extracts a numeric score and reason from free-form judge
// output. Fallback order: strip a markdown code fence, strict JSON decode,
// pattern extraction of "score"/"reason" anywhere in the raw text, and
// finally a zero score echoing a truncated prefix of the response. It never
// fails; a flaky judge degrades to a zero score, not an error.
func parseScoreOutput(content string) (float64, string) {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = fenceOpenRe.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(fenceCloseRe.ReplaceAllString(cleaned, ""))
	}

	if value, reason, ok := decodeScoreJSON(cleaned); ok {
		return value, reason
	}

	if m := scoreRe.FindStringSubmatch(content); m != nil {
		if value, err := strconv.ParseFloat(m[1], 64); err == nil {
			reason := "Extracted via regex"
			if rm := reasonRe.FindStringSubmatch(content); rm != nil {
				reason = rm[1]
			}
			return value, reason
		}
	}

	return 0.0, "Failed to parse judge response: " + truncate(content, 200)
}

// parseStrictScoreOutput accepts only a bare JSON object; anything else
// yields a zero score with a diagnostic reason.
func parseStrictScoreOutput(content string) (float64, string) {
	if value, reason, ok := decodeScoreJSON(content); ok {
		return value, reason
	}
	return 0.0, "Failed to parse response: " + truncate(content, 100)
}

func decodeScoreJSON(s string) (value float64, reason string, ok bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return 0, "", false
	}
	value, ok = scoreValue(m["score"])
	if !ok {
		return 0, "", false
	}
	reason, _ = m["reason"].(string)
	return value, reason, true
}

// scoreValue coerces a decoded "score" field to a float. A missing field
// defaults to zero; a numeric string is accepted.
func scoreValue(raw any) (float64, bool) {
	switch n := raw.(type) {
	case nil:
		return 0.0, true
	case float64:
		return n, true
	case string:
		v, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return v, err == nil
	default:
		return 0, false
	}
}
