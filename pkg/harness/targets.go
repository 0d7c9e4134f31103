package harness

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Document paths relative to an editor checkout.
const (
	BlockFactoryPath = "demos/blockfactory/index.html"
	CodeDemoPath     = "demos/code/index.html"
	PlaygroundPath   = "tests/playground.html"
)

// Targets builds file URLs for the editor's demo and test documents.
type Targets struct {
	Root string
}

// NewTargets roots the documents at an editor checkout.
func NewTargets(root string) Targets {
	return Targets{Root: root}
}

// BlockFactory returns the block factory demo.
func (t Targets) BlockFactory() string {
	return t.fileURL(BlockFactoryPath, "")
}

// CodeDemo returns the code generation demo.
func (t Targets) CodeDemo() string {
	return t.fileURL(CodeDemoPath, "")
}

// Playground returns the test playground, loading the named toolbox when
// toolbox is non-empty.
func (t Targets) Playground(toolbox string) string {
	query := ""
	if toolbox != "" {
		query = url.Values{"toolbox": {toolbox}}.Encode()
	}
	return t.fileURL(PlaygroundPath, query)
}

func (t Targets) fileURL(rel, query string) string {
	path := filepath.ToSlash(filepath.Join(t.Root, filepath.FromSlash(rel)))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path, RawQuery: query}
	return u.String()
}
