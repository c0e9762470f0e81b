package render

import (
	"encoding/json"
	"strings"

	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/oliveagle/jsonpath"
	"github.com/pkg/errors"
)

// Field evaluates a jsonpath expression such as "$.ports[0].privatePort"
// against the JSON form of r. Scalars are returned bare; anything else as JSON.
func Field(r model.ContainerRecord, path string) (string, error) {
	if !strings.HasPrefix(path, "$") {
		path = "$." + strings.TrimPrefix(path, ".")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", err
	}

	v, err := jsonpath.JsonPathLookup(doc, path)
	if err != nil {
		return "", errors.Wrapf(err, "lookup [%s]", path)
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "null", nil
	default:
		out, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}
