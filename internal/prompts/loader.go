// Package prompts holds the language-model and voice-agent prompts. Each embedded JSON
// file maps a prompt name to a text/template body using {{.Field}} placeholders.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

type entry struct {
	text string
	tmpl *template.Template
}

// catalog is parsed once; a broken prompt file fails every lookup.
var catalog = sync.OnceValues(func() (map[string]map[string]entry, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]entry, len(names))
	for _, name := range names {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var raw map[string]string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		entries := make(map[string]entry, len(raw))
		for key, text := range raw {
			tmpl, err := template.New(name + "/" + key).Option("missingkey=error").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("prompt %s/%s: %w", name, key, err)
			}
			entries[key] = entry{text: text, tmpl: tmpl}
		}
		out[name] = entries
	}
	return out, nil
})

func lookup(file, key string) (entry, error) {
	files, err := catalog()
	if err != nil {
		return entry{}, err
	}
	entries, ok := files[file]
	if !ok {
		return entry{}, fmt.Errorf("prompt file %s not found", file)
	}
	e, ok := entries[key]
	if !ok {
		return entry{}, fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return e, nil
}

// Get returns a prompt's raw text, placeholders included.
func Get(file, key string) (string, error) {
	e, err := lookup(file, key)
	if err != nil {
		return "", err
	}
	return e.text, nil
}

// Render executes a prompt with data. Every placeholder must have a value.
func Render(file, key string, data map[string]string) (string, error) {
	e, err := lookup(file, key)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", file, key, err)
	}
	return buf.String(), nil
}
