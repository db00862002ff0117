package editorial

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var objectRe = regexp.MustCompile(`(?s)\{.*\}`)

// aiResponse is the JSON object the model is asked to return.
type aiResponse struct {
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Excerpt      string          `json:"excerpt"`
	QualityScore json.RawMessage `json:"qualityScore"`
	Issues       []string        `json:"issues"`
}

// parseResponse decodes model output defensively: the whole text as JSON,
// else the outermost {...} block, else an empty response.
func parseResponse(raw string) aiResponse {
	var resp aiResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err == nil {
		return resp
	}
	if block := objectRe.FindString(raw); block != "" {
		resp = aiResponse{}
		if err := json.Unmarshal([]byte(block), &resp); err == nil {
			return resp
		}
	}
	return aiResponse{}
}

// score returns the model's self-reported quality score clamped to
// [0, 100], accepting numbers and numeric strings. ok is false when the
// score is absent or malformed.
func (r aiResponse) score() (int, bool) {
	raw := strings.TrimSpace(string(r.QualityScore))
	if raw == "" || raw == "null" {
		return 0, false
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Max(0, math.Min(f, 100))
	return int(math.Round(f)), true
}
