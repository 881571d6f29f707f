package normalize

import (
	"strings"

	"github.com/ashita-ai/kiroku/internal/jsonv"
)

const fence = "```"

// ExtractObject recovers a JSON object embedded in free text. An optional
// fenced-code wrapper is stripped, then the text between the first '{' and
// the last '}' is parsed. ok is false when no object could be recovered.
func ExtractObject(text string) (jsonv.Object, bool) {
	body := stripFence(text)
	start := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if start < 0 || end <= start {
		return jsonv.Object{}, false
	}
	v, err := jsonv.ParseString(body[start : end+1])
	if err != nil {
		return jsonv.Object{}, false
	}
	return v.AsObject()
}

// stripFence removes a leading ``` marker with its optional language tag and
// a trailing ``` marker. Text without an opening fence is returned as-is.
func stripFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, fence) {
		return text
	}
	t = t[len(fence):]
	t = strings.TrimLeftFunc(t, isTagRune)
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, fence)
	return t
}

func isTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
}
