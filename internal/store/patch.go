package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Patch maps dotted JSON paths to new values. Values are JSON encoded.
type Patch map[string]any

// ApplyPatch returns a copy of data with every path in patch set.
func ApplyPatch(data []byte, patch Patch) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("apply patch: document is not valid JSON")
	}

	paths := make([]string, 0, len(patch))
	for path := range patch {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := append([]byte(nil), data...)
	for _, path := range paths {
		raw, err := json.Marshal(patch[path])
		if err != nil {
			return nil, fmt.Errorf("apply patch %s: %w", path, err)
		}
		out, err = sjson.SetRawBytes(out, path, raw)
		if err != nil {
			return nil, fmt.Errorf("apply patch %s: %w", path, err)
		}
	}
	return out, nil
}

// Predicate selects documents in Find.
type Predicate func(Document) bool

// Where matches documents whose value at path equals value.
func Where(path, value string) Predicate {
	return func(doc Document) bool {
		res := gjson.GetBytes(doc.Data, path)
		return res.Exists() && res.String() == value
	}
}

// All matches documents satisfying every predicate.
func All(preds ...Predicate) Predicate {
	return func(doc Document) bool {
		for _, p := range preds {
			if p != nil && !p(doc) {
				return false
			}
		}
		return true
	}
}

// Match reports whether doc satisfies pred, treating nil as match-all.
func Match(pred Predicate, doc Document) bool {
	return pred == nil || pred(doc)
}
