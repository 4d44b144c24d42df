package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nfrund/denote/internal/storage"
)

var (
	errAborted = errors.New("aborting")

	sourceExts = []string{".yml", ".yaml", ".json"}
)

// checkSource rejects a description whose extension is not YAML or JSON.
// URLs are checked on their path.
func checkSource(source string) (string, error) {
	p := source
	if isURL(source) {
		u, _ := url.Parse(source)
		p = path.Base(u.Path)
	}
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range sourceExts {
		if ext == e {
			return ext, nil
		}
	}
	return "", fmt.Errorf("invalid file is passed as an argument: %s (want .yml, .yaml or .json)", source)
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// writeOutput saves data at path. An existing file is only replaced when force
// is set or the user confirms; a directory is never replaced.
func writeOutput(cmd *cobra.Command, store storage.Store, path string, data []byte, force bool) error {
	ctx := cmd.Context()
	info, err := store.Stat(ctx, path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("the output path %s is directory", path)
	case err == nil && !force:
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("The output path %s already exists. Are you sure to overwrite this file?", path))
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if _, err := store.Save(ctx, path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "File is successfully created: %s\n", path)
	return nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readSource loads a description from the store, or from the web when source is a URL.
func (c *cli) readSource(ctx context.Context, source string, fetch func(context.Context, string) ([]byte, error)) ([]byte, error) {
	if isURL(source) {
		return fetch(ctx, source)
	}
	data, err := storage.ReadFile(ctx, c.store, source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return data, nil
}
