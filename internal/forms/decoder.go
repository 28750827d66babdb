// internal/forms/decoder.go
package forms

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"gravity-webhook/internal/common/errors"
)

// bodySchema rejects JSON bodies that are not object-shaped (arrays, bare
// strings, numbers). Field values inside the object are coerced later.
var bodySchema = gojsonschema.NewGoLoader(map[string]interface{}{
	"type": "object",
})

// Decode turns a raw webhook body into FlatFields. A content type containing
// "application/json" selects JSON decoding; everything else is treated as
// URL-encoded form data where the last occurrence of a duplicated key wins.
// Only a malformed JSON body is an error.
func Decode(body []byte, contentType string) (FlatFields, error) {
	if strings.Contains(contentType, "application/json") {
		return decodeJSON(body)
	}
	return decodeForm(body), nil
}

func decodeJSON(body []byte) (FlatFields, error) {
	result, err := gojsonschema.Validate(bodySchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, errors.NewValidationError("request body must be a JSON object: " + strings.Join(msgs, "; "))
	}

	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}

	fields := make(FlatFields, len(raw))
	flattenInto(fields, "", raw)
	return fields, nil
}

// flattenInto writes scalar leaves into fields. Nested field groups use
// dotted keys, so a payload like {"6": {"3": "John"}} yields the composite
// identifier "6.3" that the schema tables reference.
func flattenInto(fields FlatFields, prefix string, value map[string]interface{}) {
	for key, v := range value {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch tv := v.(type) {
		case string:
			fields[full] = tv
		case json.Number:
			fields[full] = tv.String()
		case bool:
			fields[full] = strconv.FormatBool(tv)
		case map[string]interface{}:
			flattenInto(fields, full, tv)
		case nil:
			// dropped, matching absent form fields
		default:
			// arrays and anything exotic are ignored; the schemas only
			// reference scalar fields
		}
	}
}

// decodeForm parses URL-encoded form data. Malformed escape sequences are
// tolerated: url.ParseQuery still returns everything it could parse, which
// matches the form provider's lenient delivery.
func decodeForm(body []byte) FlatFields {
	values, _ := url.ParseQuery(string(body))
	fields := make(FlatFields, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		fields[key] = vals[len(vals)-1]
	}
	return fields
}
