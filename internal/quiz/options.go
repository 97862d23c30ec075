package quiz

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Option is one selectable choice in its normalized form.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// NormalizeOptions converts the two raw shapes the content store produces
// into one ordered list:
//
//   - an array: entries are either plain strings (key == label) or objects
//     carrying key/id and label/text fields, served in array order
//   - a keyed object: {"A": "label", ...}, served in sorted key order
//
// Anything unparseable normalizes to nil; the renderer shows the
// no-options fallback instead of guessing.
func NormalizeOptions(raw json.RawMessage) []Option {
	if len(raw) == 0 {
		return nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		out := make([]Option, 0, len(arr))
		for i, el := range arr {
			var s string
			if err := json.Unmarshal(el, &s); err == nil {
				out = append(out, Option{Key: s, Label: s})
				continue
			}
			var obj struct {
				Key   string `json:"key"`
				ID    string `json:"id"`
				Label string `json:"label"`
				Text  string `json:"text"`
			}
			if err := json.Unmarshal(el, &obj); err != nil {
				continue
			}
			key := obj.Key
			if key == "" {
				key = obj.ID
			}
			if key == "" {
				key = fmt.Sprintf("%d", i)
			}
			label := obj.Label
			if label == "" {
				label = obj.Text
			}
			out = append(out, Option{Key: key, Label: label})
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}

	var keyed map[string]string
	if err := json.Unmarshal(raw, &keyed); err == nil {
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Option, 0, len(keys))
		for _, k := range keys {
			out = append(out, Option{Key: k, Label: keyed[k]})
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}

	return nil
}
