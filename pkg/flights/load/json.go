package load

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

//go:embed schema.json
var recordSchema []byte

// maxSchemaErrors caps the violations quoted in an ErrSchema message.
const maxSchemaErrors = 5

// ReadJSON decodes an array of record objects after validating it against the
// embedded record schema.
func ReadJSON(r io.Reader) ([]flights.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(recordSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate json: %w", err)
	}

	if !result.Valid() {
		return nil, schemaError(result.Errors())
	}

	var records []flights.Record

	unmarshalErr := json.Unmarshal(data, &records)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decode json: %w", unmarshalErr)
	}

	return records, nil
}

func schemaError(violations []gojsonschema.ResultError) error {
	msgs := make([]string, 0, maxSchemaErrors)

	for i, v := range violations {
		if i == maxSchemaErrors {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(violations)-i))

			break
		}

		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Field(), v.Description()))
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}
