package settings

import "encoding/json"

// Trace captures provenance information for a given path lookup across the
// layers consulted to produce the effective value.
type Trace struct {
	Path   string            `json:"path"`
	Layers []LayerProvenance `json:"layers"`
}

// LayerProvenance details how a specific layer contributed to a traced path.
type LayerProvenance struct {
	Layer    string         `json:"layer"`
	Selector map[string]any `json:"selector,omitempty"`
	Path     string         `json:"path"`
	Value    any            `json:"value,omitempty"`
	Found    bool           `json:"found"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
