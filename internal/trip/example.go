package trip

import _ "embed"

//go:embed example_input.json
var exampleJSON []byte

// ExampleJSON returns a copy of the bundled example request.
func ExampleJSON() []byte {
	out := make([]byte, len(exampleJSON))
	copy(out, exampleJSON)
	return out
}

// Example returns the bundled example request, parsed and validated.
func Example() (*Request, error) {
	return Parse(exampleJSON)
}
