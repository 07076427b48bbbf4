package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// settings holds the conversion options of a project.
type settings struct {
	// Wrap each drawing in an Image element.
	GenerateImage bool `yaml:"generateImage"`
	// Output a Styles document, with a resource per file.
	GenerateStyles bool `yaml:"generateStyles"`
	// Prefix of every output line.
	Indent string
	// Ignore the opacity properties.
	IgnoreOpacity bool `yaml:"ignoreOpacity"`
	// Ignore the clip-path references.
	IgnoreClipPath bool `yaml:"ignoreClipPath"`
	// Directory where PNG previews are written.
	// Empty disables the previews.
	Preview string
	// Number of files parsed concurrently.
	Workers int
}

func defaultSettings() settings {
	return settings{GenerateStyles: true, Workers: 1}
}

// readSettingsFile reads the settings stored in filename,
// starting from the default values.
func readSettingsFile(filename string) (settings, error) {
	s := defaultSettings()
	f, err := os.Open(filename)
	if err != nil {
		return s, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(&s); err != nil && err != io.EOF { // an empty file is valid
		return s, fmt.Errorf("reading %s: %w", filename, err)
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	return s, nil
}
