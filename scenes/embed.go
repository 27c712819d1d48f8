// Package scenes ships the starter scene written by new scene commands.
package scenes

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

//go:embed *.xml
var TemplatesFS embed.FS

const templateName = "template.xml"

var ErrExists = errors.New("scenes: scene already exists")

// Template returns a fresh copy of the starter scene document.
func Template() (*etree.Document, error) {
	data, err := TemplatesFS.ReadFile(templateName)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return doc, nil
}

// Create writes a new scene file at path from the template, setting the
// tilemap texture when texture is not empty. Existing files are not touched.
func Create(path, texture string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("create %s: %w", path, ErrExists)
	}
	doc, err := Template()
	if err != nil {
		return err
	}
	if texture != "" {
		if tm := doc.Root().SelectElement("tilemap"); tm != nil {
			tm.CreateAttr("texture", texture)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	doc.Indent(2)
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}
