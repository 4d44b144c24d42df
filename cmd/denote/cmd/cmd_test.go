package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/denote/internal/profile"
	"github.com/nfrund/denote/internal/storage"
)

const profileYAML = `name: carol
list:
  g1:
    items:
      - text: hello
`

type result struct {
	out string
	err error
}

func run(t *testing.T, fs afero.Fs, stdin string, args ...string) result {
	t.Helper()
	root := NewRootCmd(storage.NewAferoStore(fs))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{out: out.String(), err: err}
}

func TestVersion(t *testing.T) {
	r := run(t, afero.NewMemMapFs(), "", "version")
	require.NoError(t, r.err)
	assert.Equal(t, "denote "+version+"\n", r.out)
}

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		file    string
		check   func(t *testing.T, data []byte)
		wantErr string
	}{
		{
			name: "yaml with name",
			args: []string{"init", "carol.yml", "--name", "carol"},
			file: "carol.yml",
			check: func(t *testing.T, data []byte) {
				assert.True(t, strings.HasPrefix(string(data), "name: carol\n"))
				_, err := profile.Load(data)
				assert.NoError(t, err)
			},
		},
		{
			name: "json",
			args: []string{"init", "carol.json", "-n", "carol"},
			file: "carol.json",
			check: func(t *testing.T, data []byte) {
				var doc map[string]any
				require.NoError(t, json.Unmarshal(data, &doc))
				assert.Equal(t, "carol", doc["name"])
				assert.Contains(t, doc, "list")
			},
		},
		{
			name: "default name",
			args: []string{"i", "denote.yaml"},
			file: "denote.yaml",
			check: func(t *testing.T, data []byte) {
				assert.Contains(t, string(data), "name: "+profile.DefaultSampleName)
			},
		},
		{name: "bad extension", args: []string{"init", "carol.txt"}, wantErr: "invalid file"},
		{name: "missing filename", args: []string{"init"}, wantErr: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			r := run(t, fs, "", tt.args...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, r.err, tt.wantErr)
				return
			}
			require.NoError(t, r.err)
			assert.Contains(t, r.out, "File is successfully created: "+tt.file)
			data, err := afero.ReadFile(fs, tt.file)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestInit_Overwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "denote.yml", []byte("keep me"), 0o644))

	r := run(t, fs, "n\n", "init", "denote.yml")
	assert.ErrorIs(t, r.err, errAborted)
	assert.Contains(t, r.out, "already exists")
	data, _ := afero.ReadFile(fs, "denote.yml")
	assert.Equal(t, "keep me", string(data))

	r = run(t, fs, "", "init", "denote.yml")
	assert.ErrorIs(t, r.err, errAborted, "no answer means no")

	r = run(t, fs, "yes\n", "init", "denote.yml")
	require.NoError(t, r.err)
	data, _ = afero.ReadFile(fs, "denote.yml")
	assert.NotEqual(t, "keep me", string(data))

	require.NoError(t, afero.WriteFile(fs, "denote.yml", []byte("keep me"), 0o644))
	r = run(t, fs, "", "init", "denote.yml", "-f")
	require.NoError(t, r.err)
	data, _ = afero.ReadFile(fs, "denote.yml")
	assert.NotEqual(t, "keep me", string(data))
}

func TestInit_RefusesDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("out.yml", 0o755))
	r := run(t, fs, "y\n", "init", "out.yml", "-f")
	assert.ErrorContains(t, r.err, "is directory")
}

func TestBuild(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "profiles/denote.yml", []byte(profileYAML), 0o644))

	r := run(t, fs, "", "build", "profiles/denote.yml", "--cache", "max-age=60")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "denote_server.js")

	script, err := afero.ReadFile(fs, "denote_server.js")
	require.NoError(t, err)
	assert.Contains(t, string(script), `"max-age=60"`)
	assert.Contains(t, string(script), "addEventListener")
}

func TestBuild_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "denote.yml", []byte(profileYAML), 0o644))
	require.NoError(t, afero.WriteFile(fs, "empty.yml", []byte("name: carol\n"), 0o644))
	require.NoError(t, fs.MkdirAll("taken_server.js", 0o755))
	require.NoError(t, afero.WriteFile(fs, "taken.yml", []byte(profileYAML), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"non-js output", []string{"build", "denote.yml", "-o", "out.html"}, "invalid output file"},
		{"bad source extension", []string{"build", "denote.toml"}, "invalid file"},
		{"missing source", []string{"build", "missing.yml"}, "missing.yml"},
		{"invalid description", []string{"build", "empty.yml"}, "list is empty"},
		{"output is directory", []string{"build", "taken.yml", "-f"}, "is directory"},
		{"url source", []string{"build", "https://example.com/denote.yml"}, "local file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, fs, "", tt.args...)
			assert.ErrorContains(t, r.err, tt.wantErr)
		})
	}
}

func TestServe_Validation(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "denote.yml", []byte(profileYAML), 0o644))

	r := run(t, fs, "", "serve", "denote.yml", "-p", "0")
	assert.ErrorContains(t, r.err, "invalid port number")

	r = run(t, fs, "", "serve", "denote.txt")
	assert.ErrorContains(t, r.err, "invalid file")

	r = run(t, fs, "", "serve", "missing.yml")
	assert.ErrorContains(t, r.err, "missing.yml")
}

func fakeRegistry(t *testing.T, status int, message string) (*httptest.Server, *map[string]any, *string) {
	t.Helper()
	var body map[string]any
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/published.yml" {
			_, _ = w.Write([]byte(profileYAML))
			return
		}
		method = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
	}))
	t.Cleanup(srv.Close)
	return srv, &body, &method
}

func TestRegister(t *testing.T) {
	srv, body, method := fakeRegistry(t, http.StatusOK, "data is saved successfully. do not forget your token.")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "denote.yml", []byte(profileYAML), 0o644))

	r := run(t, fs, "", "register", "denote.yml", "-n", "carol", "-t", "token-one", "--registry", srv.URL)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "data is saved successfully")
	assert.Equal(t, http.MethodPost, *method)
	assert.Equal(t, "carol", (*body)["name"])
	assert.Equal(t, "token-one", (*body)["token"])

	config, ok := (*body)["config"].(string)
	require.True(t, ok, "config is sent as a string")
	assert.JSONEq(t, `{"name":"carol","list":{"g1":{"items":[{"text":"hello"}]}}}`, config)
}

func TestRegister_FromURL(t *testing.T) {
	srv, body, _ := fakeRegistry(t, http.StatusOK, "saved")
	t.Setenv("DENOTE_REGISTRY", srv.URL)

	r := run(t, afero.NewMemMapFs(), "", "register", srv.URL+"/published.yml", "-n", "carol", "-t", "token-one")
	require.NoError(t, r.err)
	assert.Equal(t, "carol", (*body)["name"])
}

func TestRegister_Errors(t *testing.T) {
	srv, _, _ := fakeRegistry(t, http.StatusUnauthorized, "the token is incorrect.")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "denote.yml", []byte(profileYAML), 0o644))
	require.NoError(t, afero.WriteFile(fs, "noname.yml", []byte("list:\n  g: {items: []}\n"), 0o644))

	r := run(t, fs, "", "register", "denote.yml", "-n", "carol", "-t", "token-two", "--registry", srv.URL)
	assert.ErrorContains(t, r.err, "status 401")
	assert.Contains(t, r.out, "the token is incorrect.")

	r = run(t, fs, "", "register", "denote.yml", "-n", "carol", "--registry", srv.URL)
	assert.ErrorContains(t, r.err, "token")

	r = run(t, fs, "", "register", "noname.yml", "-n", "carol", "-t", "token-one", "--registry", srv.URL)
	assert.ErrorContains(t, r.err, "name is required")
}

func TestUnregister(t *testing.T) {
	srv, body, method := fakeRegistry(t, http.StatusOK, "the data of the name 'carol' is deleted successfully.")

	r := run(t, afero.NewMemMapFs(), "", "unregister", "-n", "carol", "-t", "token-one", "--registry", srv.URL)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "deleted successfully")
	assert.Equal(t, http.MethodDelete, *method)
	assert.Equal(t, map[string]any{"name": "carol", "token": "token-one"}, *body)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Overwrite?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Overwrite? [y/N] ", out.String())
	}
}

func TestCheckSource(t *testing.T) {
	for _, ok := range []string{"a.yml", "dir/a.yaml", "A.JSON", "https://example.com/p/denote.yml?raw=1"} {
		_, err := checkSource(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"a.txt", "noext", "https://example.com/"} {
		_, err := checkSource(bad)
		assert.Error(t, err, bad)
	}
}
