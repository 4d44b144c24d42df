package render

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v3"
)

// RainCount is the number of drops in the decorative rain layer.
const RainCount = 30

//go:embed base.yml
var baseYAML []byte

const keyframes = "@keyframes falldown{to{margin-top:120vh}}"

type declaration struct {
	property string
	value    string
}

type rule struct {
	selector     string
	declarations []declaration
}

var baseRules = mustParseRules(baseYAML)

func mustParseRules(src []byte) []rule {
	rules, err := parseRules(src)
	if err != nil {
		panic(fmt.Sprintf("render: invalid base stylesheet: %v", err))
	}
	return rules
}

// parseRules reads a mapping of selector to a mapping of property to value,
// keeping the order of both.
func parseRules(src []byte) ([]rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("stylesheet must be a mapping of selectors")
	}

	root := doc.Content[0]
	rules := make([]rule, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		selector, body := root.Content[i].Value, root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: rule %q must be a mapping", body.Line, selector)
		}
		r := rule{selector: selector}
		for j := 0; j+1 < len(body.Content); j += 2 {
			r.declarations = append(r.declarations, declaration{
				property: body.Content[j].Value,
				value:    body.Content[j+1].Value,
			})
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func writeRule(b *strings.Builder, r rule) {
	b.WriteString(r.selector)
	b.WriteByte('{')
	for i, d := range r.declarations {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(d.property)
		b.WriteByte(':')
		b.WriteString(d.value)
	}
	b.WriteByte('}')
}

// Stylesheet returns the page CSS: the base rules followed by one rule per rain
// drop. Drops get their delays from a shuffled sequence so they do not fall in
// left-to-right order.
func Stylesheet(rng *rand.Rand, count int) string {
	var b strings.Builder
	for _, r := range baseRules {
		writeRule(&b, r)
	}

	for idx, num := range rng.Perm(count) {
		writeRule(&b, rule{
			selector: fmt.Sprintf(".drop:nth-child(%d)", idx+1),
			declarations: []declaration{
				{"animation-delay", fmt.Sprintf("%dms", num*50)},
				{"animation-duration", fmt.Sprintf("%dms", rng.IntN(300)+350)},
				{"opacity", fmt.Sprintf("0.%d", rng.IntN(3)+2)},
			},
		})
	}

	b.WriteString(keyframes)
	return b.String()
}
