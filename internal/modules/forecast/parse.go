package forecast

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	jsonFence    = regexp.MustCompile("```json\\s*\\n?")
	plainFence   = regexp.MustCompile("```\\s*\\n?")
	lineComments = regexp.MustCompile(`(^|[^:])//[^\n]*`)
)

// cleanReply strips markdown fences and // comments, leaving URLs intact,
// and returns the text between the first '{' and the last '}'.
func cleanReply(reply string) string {
	s := jsonFence.ReplaceAllString(reply, "")
	s = plainFence.ReplaceAllString(s, "")
	s = lineComments.ReplaceAllString(s, "${1}")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// parseForecast decodes a model reply. The reply must carry a predictions key.
func parseForecast(reply string) (*Forecast, error) {
	body := cleanReply(reply)
	if body == "" || !gjson.Valid(body) {
		return nil, ErrUnparsable
	}
	if !gjson.Get(body, "predictions").IsArray() {
		return nil, fmt.Errorf("%w: missing predictions", ErrUnparsable)
	}
	var f Forecast
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return &f, nil
}
