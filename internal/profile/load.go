package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError reports the first invariant of a description that does not hold.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Document is a profile description as written by its author. Older descriptions
// used `image`/`avatar` for the main image and `bio` for the description; both
// spellings are still accepted.
type Document struct {
	Name        string        `yaml:"name" json:"name,omitempty" validate:"required"`
	ProjectName string        `yaml:"projectName" json:"projectName,omitempty"`
	Title       string        `yaml:"title" json:"title,omitempty"`
	Description string        `yaml:"description" json:"description,omitempty"`
	Bio         string        `yaml:"bio" json:"bio,omitempty"`
	MainImage   string        `yaml:"mainImage" json:"mainImage,omitempty"`
	Image       string        `yaml:"image" json:"image,omitempty"`
	Avatar      string        `yaml:"avatar" json:"avatar,omitempty"`
	Favicon     string        `yaml:"favicon" json:"favicon,omitempty"`
	Twitter     string        `yaml:"twitter" json:"twitter,omitempty"`
	Disable     []DisableFlag `yaml:"disable" json:"disable,omitempty"`
	List        Groups        `yaml:"list" json:"list" validate:"required,min=1"`
}

var validate = validator.New()

// fieldMessages maps a struct field to the message shown when it fails validation.
var fieldMessages = map[string]string{
	"Name": "name is required",
	"List": "list is empty",
}

// Parse decodes a YAML or JSON description without validating it. Valid JSON is
// read with JSON rules, so `\/` escapes and repeated keys (last wins) are accepted.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && json.Valid(trimmed) {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, &ValidationError{Field: "config", Message: fmt.Sprintf("invalid config: %v", err)}
		}
		return &doc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, &ValidationError{Field: "config", Message: fmt.Sprintf("invalid config: %v", err)}
	}
	return &doc, nil
}

// Load parses, validates and sanitizes a description in one step.
func Load(data []byte) (*Config, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Config()
}

// Validate checks the mandatory fields. Fields are checked in declaration order,
// so `name` is reported before `list`.
func (d *Document) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	msg, ok := fieldMessages[first.Field()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", first.Field())
	}
	return &ValidationError{Field: first.Field(), Message: msg}
}

// Config validates the document and returns its sanitized form with defaults applied.
func (d *Document) Config() (*Config, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	mainImage := firstNonEmpty(d.MainImage, d.Image, d.Avatar)
	cfg := &Config{
		Name:        Sanitize(d.Name),
		ProjectName: Sanitize(firstNonEmpty(d.ProjectName, d.Name)),
		Title:       Sanitize(firstNonEmpty(d.Title, d.Name+" | "+Product)),
		Description: Sanitize(firstNonEmpty(d.Description, d.Bio)),
		Twitter:     Sanitize(NormalizeTwitter(d.Twitter)),
		MainImage:   EncodeURI(mainImage),
		Favicon:     EncodeURI(firstNonEmpty(d.Favicon, mainImage)),
		Disable:     append([]DisableFlag(nil), d.Disable...),
		List:        make(Groups, 0, len(d.List)),
	}

	for _, g := range d.List {
		items := make([]ListItem, 0, len(g.Items))
		for _, item := range g.Items {
			items = append(items, ListItem{
				Text: Sanitize(item.Text),
				Icon: item.Icon,
				Link: EncodeURI(item.Link),
			})
		}
		cfg.List = append(cfg.List, Group{
			ID:        g.ID,
			ListGroup: ListGroup{Icon: g.Icon, Items: items},
		})
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
