package api

import (
	"encoding/json"
	"errors"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

var errPatchNotObject = errors.New("el cuerpo debe ser un objeto JSON")

// applyMergePatch aplica patch (RFC 7386) sobre la representación JSON de current y
// decodifica el resultado en out. Las claves de protected se ignoran en patch.
func applyMergePatch(current any, patch []byte, out any, protected ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil || fields == nil {
		return errPatchNotObject
	}
	for _, k := range protected {
		delete(fields, k)
	}
	clean, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(current)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(doc, clean)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, out)
}
