// Package profile loads and sanitizes the declarative description of a profile page.
//
// A description is written in YAML or JSON. Parse keeps it as the user wrote it
// (a Document); Document.Config validates it, applies defaults and escapes every
// piece of free text so the result can be placed into HTML as-is.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Product is the name used in default titles.
const Product = "denote"

// DisableFlag switches off an optional part of the rendered page.
type DisableFlag string

const (
	DisableRain         DisableFlag = "rain"
	DisableNav          DisableFlag = "nav"
	DisableRoundedImage DisableFlag = "rounded-image"
)

// ListItem is one row of a group.
type ListItem struct {
	Text string `yaml:"text" json:"text,omitempty"`
	Icon string `yaml:"icon" json:"icon,omitempty"`
	Link string `yaml:"link" json:"link,omitempty"`
}

// ListGroup is one navigable section of the page.
type ListGroup struct {
	Icon  string     `yaml:"icon" json:"icon,omitempty"`
	Items []ListItem `yaml:"items" json:"items"`
}

// Group pairs a ListGroup with the id it was declared under.
type Group struct {
	ID string
	ListGroup
}

// Groups is the `list` mapping. It keeps the order in which the groups were declared.
type Groups []Group

// UnmarshalYAML decodes a mapping of group id to group, preserving key order.
func (g *Groups) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: list must be a mapping of group ids to groups", value.Line)
	}

	groups := make(Groups, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var lg ListGroup
		if err := value.Content[i+1].Decode(&lg); err != nil {
			return fmt.Errorf("group %q: %w", value.Content[i].Value, err)
		}
		groups = append(groups, Group{ID: value.Content[i].Value, ListGroup: lg})
	}
	*g = groups
	return nil
}

// UnmarshalJSON decodes an object of group id to group, preserving key order.
// A repeated id keeps its first position and takes the last value.
func (g *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("list must be an object of group ids to groups")
	}

	groups := Groups{}
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := tok.(string)
		var lg ListGroup
		if err := dec.Decode(&lg); err != nil {
			return fmt.Errorf("group %q: %w", id, err)
		}
		if i, ok := seen[id]; ok {
			groups[i].ListGroup = lg
			continue
		}
		seen[id] = len(groups)
		groups = append(groups, Group{ID: id, ListGroup: lg})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = groups
	return nil
}

// MarshalJSON encodes the groups as a JSON object in declaration order.
func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.ID)
		if err != nil {
			return nil, err
		}
		lg := group.ListGroup
		if lg.Items == nil {
			lg.Items = []ListItem{}
		}
		val, err := json.Marshal(lg)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Config is a validated, sanitized profile description. Text fields are HTML-escaped
// and URI fields are percent-encoded.
type Config struct {
	Name        string
	ProjectName string
	Title       string
	Description string
	MainImage   string
	Favicon     string
	Twitter     string
	Disable     []DisableFlag
	List        Groups
}

// Disabled reports whether the given part of the page was switched off.
func (c *Config) Disabled(flag DisableFlag) bool {
	for _, f := range c.Disable {
		if f == flag {
			return true
		}
	}
	return false
}
