package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullYAML = `
name: alice
projectName: alice-page
title: Alice <3
bio: "tom & jerry"
avatar: https://example.com/a b.png
twitter: alice
disable: [rain, nav]
list:
  zeta:
    icon: feather/anchor
    items:
      - text: first
        link: https://example.com/x y
  alpha:
    items: []
  mid:
    icon: jam/info
`

func TestLoad_FullDocument(t *testing.T) {
	cfg, err := Load([]byte(fullYAML))
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Name)
	assert.Equal(t, "alice-page", cfg.ProjectName)
	assert.Equal(t, "Alice &lt;3", cfg.Title)
	assert.Equal(t, "tom &amp; jerry", cfg.Description)
	assert.Equal(t, "https://example.com/a%20b.png", cfg.MainImage)
	assert.Equal(t, cfg.MainImage, cfg.Favicon)
	assert.Equal(t, "@alice", cfg.Twitter)
	assert.True(t, cfg.Disabled(DisableRain))
	assert.True(t, cfg.Disabled(DisableNav))
	assert.False(t, cfg.Disabled(DisableRoundedImage))

	require.Len(t, cfg.List, 3)
	assert.Equal(t, "zeta", cfg.List[0].ID)
	assert.Equal(t, "alpha", cfg.List[1].ID)
	assert.Equal(t, "mid", cfg.List[2].ID)
	assert.Equal(t, "https://example.com/x%20y", cfg.List[0].Items[0].Link)
	assert.Empty(t, cfg.List[2].Items)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]byte("name: bob\nlist:\n  g1:\n    items: []\n"))
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.ProjectName)
	assert.Equal(t, "bob | denote", cfg.Title)
	assert.Empty(t, cfg.Description)
	assert.Empty(t, cfg.MainImage)
	assert.Empty(t, cfg.Favicon)
	assert.Empty(t, cfg.Twitter)
	assert.Empty(t, cfg.Disable)
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load([]byte(`{"name":"carol","list":{"b":{"items":[]},"a":{"items":[{"text":"x"}]}}}`))
	require.NoError(t, err)
	require.Len(t, cfg.List, 2)
	assert.Equal(t, "b", cfg.List[0].ID)
	assert.Equal(t, "a", cfg.List[1].ID)

	t.Run("escaped slashes", func(t *testing.T) {
		cfg, err := Load([]byte(`{"name":"carol","list":{"g1":{"items":[{"text":"a\/b","link":"https:\/\/x.y"}]}}}`))
		require.NoError(t, err)
		require.Len(t, cfg.List[0].Items, 1)
		assert.Equal(t, "a/b", cfg.List[0].Items[0].Text)
		assert.Equal(t, "https://x.y", cfg.List[0].Items[0].Link)
	})

	t.Run("repeated keys keep the last value", func(t *testing.T) {
		cfg, err := Load([]byte(`{"name":"carol","title":"a","title":"b","list":{"x":{"icon":"one","items":[]},"y":{"items":[]},"x":{"icon":"two","items":[]}}}`))
		require.NoError(t, err)
		assert.Equal(t, "b", cfg.Title)
		require.Len(t, cfg.List, 2)
		assert.Equal(t, "x", cfg.List[0].ID)
		assert.Equal(t, "two", cfg.List[0].Icon)
		assert.Equal(t, "y", cfg.List[1].ID)
	})

	t.Run("list must be an object", func(t *testing.T) {
		_, err := Load([]byte(`{"name":"carol","list":["g1"]}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "config", verr.Field)
	})
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		field   string
		message string
	}{
		{"empty input", "", "Name", "name is required"},
		{"missing name", "list:\n  g1:\n    items: []\n", "Name", "name is required"},
		{"empty name", "name: ''\nlist:\n  g1:\n    items: []\n", "Name", "name is required"},
		{"name checked before list", "title: x\n", "Name", "name is required"},
		{"missing list", "name: dave\n", "List", "list is empty"},
		{"empty list", "name: dave\nlist: {}\n", "List", "list is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load([]byte(tt.input))
			assert.Nil(t, cfg)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Error())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("name: [unterminated"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "config", verr.Field)

	_, err = Parse([]byte("name: x\nlist: [a, b]\n"))
	require.Error(t, err)
}

func TestNormalizeTwitter(t *testing.T) {
	assert.Equal(t, "", NormalizeTwitter(""))
	assert.Equal(t, "@alice", NormalizeTwitter("alice"))
	assert.Equal(t, "@bob", NormalizeTwitter("@bob"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;", Sanitize(`<a href="x">&</a>`))
	assert.Equal(t, "plain text", Sanitize("plain text"))
}

func TestEncodeURI(t *testing.T) {
	tests := map[string]string{
		"https://example.com/path?q=1&r=2#frag": "https://example.com/path?q=1&r=2#frag",
		"https://example.com/a b":               "https://example.com/a%20b",
		"https://example.com/\"<>":              "https://example.com/%22%3C%3E",
		"https://例え.jp/":                        "https://%E4%BE%8B%E3%81%88.jp/",
		"100%":                                  "100%25",
	}
	for in, want := range tests {
		assert.Equal(t, want, EncodeURI(in), in)
	}
}

func TestDocument_MarshalJSONKeepsGroupOrder(t *testing.T) {
	doc, err := Parse([]byte(fullYAML))
	require.NoError(t, err)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"list":{"zeta":{"icon":"feather/anchor","items":[{"text":"first","link":"https://example.com/x y"}]},"alpha":{"items":[]},"mid":{"icon":"jam/info","items":[]}}`)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, normalizeItems(doc.List), normalizeItems(again.List))
}

func normalizeItems(g Groups) Groups {
	for i := range g {
		if len(g[i].Items) == 0 {
			g[i].Items = nil
		}
	}
	return g
}

func TestSample(t *testing.T) {
	src, err := Sample("octo")
	require.NoError(t, err)
	cfg, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, "octo", cfg.Name)
	assert.Len(t, cfg.List, 2)

	js, err := SampleJSON("")
	require.NoError(t, err)
	assert.True(t, json.Valid(js))
	cfg, err = Load(js)
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleName, cfg.Name)
	assert.Equal(t, "id-1", cfg.List[0].ID)
}
