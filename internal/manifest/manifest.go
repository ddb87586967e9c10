// Package manifest loads the list of files the fixer processes. A manifest
// is a small HCL document with a root directory and either an explicit file
// list or a set of extensions to discover files by.
package manifest

import (
	_ "embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// defaultManifest is the authoring-time file list compiled into the binary.
// Running without a -manifest flag processes exactly these files.
//
//go:embed default.hcl
var defaultManifest []byte

// Manifest is a resolved set of files to process, in manifest order.
type Manifest struct {
	Root  string
	Files []string
}

// schema describes the attributes a manifest document may carry.
var schema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "root"},
		{Name: "files"},
		{Name: "extensions"},
	},
}

// Default returns the manifest embedded in the binary. rootOverride, when
// non-empty, replaces the manifest's own root attribute.
func Default(rootOverride string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(defaultManifest, "default.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse embedded manifest: %s", diags.Error())
	}
	return decode(file.Body, rootOverride)
}

// Load reads and resolves a manifest from the given path.
func Load(path, rootOverride string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %s", path, diags.Error())
	}
	return decode(file.Body, rootOverride)
}

// decode extracts the attributes from a parsed manifest body and resolves
// the file list against the effective root.
func decode(body hcl.Body, rootOverride string) (*Manifest, error) {
	content, diags := body.Content(schema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid manifest: %s", diags.Error())
	}

	root := "."
	if attr, ok := content.Attributes["root"]; ok {
		v, err := stringAttr(attr)
		if err != nil {
			return nil, err
		}
		root = v
	}
	if rootOverride != "" {
		root = rootOverride
	}

	filesAttr, hasFiles := content.Attributes["files"]
	extAttr, hasExt := content.Attributes["extensions"]
	if hasFiles && hasExt {
		return nil, fmt.Errorf(`invalid manifest: "files" and "extensions" are mutually exclusive`)
	}
	if !hasFiles && !hasExt {
		return nil, fmt.Errorf(`invalid manifest: one of "files" or "extensions" is required`)
	}

	if hasFiles {
		entries, err := stringListAttr(filesAttr)
		if err != nil {
			return nil, err
		}
		resolved := make([]string, 0, len(entries))
		for _, entry := range entries {
			resolved = append(resolved, resolve(root, entry))
		}
		return &Manifest{Root: root, Files: resolved}, nil
	}

	extensions, err := stringListAttr(extAttr)
	if err != nil {
		return nil, err
	}
	files, err := discover(root, extensions)
	if err != nil {
		return nil, fmt.Errorf("discovering files under %s: %w", root, err)
	}
	return &Manifest{Root: root, Files: files}, nil
}

// resolve joins a manifest entry with the root. Absolute entries pass
// through unchanged.
func resolve(root, entry string) string {
	entry = filepath.FromSlash(entry)
	if filepath.IsAbs(entry) {
		return entry
	}
	return filepath.Join(root, entry)
}

// discover walks root and collects every file whose name ends with one of
// the given extensions, in lexical walk order.
func discover(root string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// stringAttr evaluates an attribute expected to hold a single string.
func stringAttr(attr *hcl.Attribute) (string, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("invalid manifest attribute %q: %s", attr.Name, diags.Error())
	}
	if v.Type() != cty.String {
		return "", fmt.Errorf("invalid manifest attribute %q: expected a string", attr.Name)
	}
	return v.AsString(), nil
}

// stringListAttr evaluates an attribute expected to hold a list of strings.
func stringListAttr(attr *hcl.Attribute) ([]string, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid manifest attribute %q: %s", attr.Name, diags.Error())
	}
	if !v.CanIterateElements() {
		return nil, fmt.Errorf("invalid manifest attribute %q: expected a list of strings", attr.Name)
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type() != cty.String {
			return nil, fmt.Errorf("invalid manifest attribute %q: expected a list of strings", attr.Name)
		}
		out = append(out, ev.AsString())
	}
	return out, nil
}
