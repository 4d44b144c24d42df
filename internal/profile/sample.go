package profile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"text/template"
)

//go:embed sample.yml
var sampleSource string

var sampleTmpl = template.Must(template.New("sample").Parse(sampleSource))

// DefaultSampleName is used when no name is given to Sample.
const DefaultSampleName = "octocat"

// Sample returns a commented YAML description for the given name.
func Sample(name string) ([]byte, error) {
	if name == "" {
		name = DefaultSampleName
	}
	var buf bytes.Buffer
	if err := sampleTmpl.Execute(&buf, struct{ Name string }{name}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SampleJSON returns the sample description converted to indented JSON.
func SampleJSON(name string) ([]byte, error) {
	src, err := Sample(name)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}
