package promptfile

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema for definition documents, for editor
// integration and out-of-band validation of authored files.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := reflector.Reflect(&File{})
	return json.MarshalIndent(s, "", "  ")
}
