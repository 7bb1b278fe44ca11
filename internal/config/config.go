// Package config loads the layered ink task configuration.
//
// Configuration comes from up to two YAML files: a user-level default
// (config dir) overlaid by the working-directory file. Merging happens at
// top-level key granularity: a later source replaces the whole section, it
// does not deep-merge into it. Task order follows document order, with keys
// introduced by a later source appended after the earlier ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sciforge/ink/pkg/types"
)

// reserved names top-level keys that are not task sections.
var reserved = map[string]bool{
	"global": true,
	"ending": true,
}

// Load reads and merges the given config files in order. Missing files are
// skipped; at least one must exist. Sections that are not YAML mappings stay
// out of Tasks but keep their slot in TaskOrder, so the runner can report
// them as invalid.
func Load(paths ...string) (*types.Config, error) {
	var (
		order    []string
		sections = map[string]*yaml.Node{}
		global   *yaml.Node
		found    bool
	)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		found = true

		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		root := documentRoot(&doc)
		if root == nil {
			// Empty file overrides nothing.
			continue
		}
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse config %s: top level is not a mapping", path)
		}

		// Mapping nodes store key/value pairs flattened in Content.
		for i := 0; i+1 < len(root.Content); i += 2 {
			key := root.Content[i].Value
			val := root.Content[i+1]

			if key == "global" {
				global = val
				continue
			}
			if _, seen := sections[key]; !seen {
				order = append(order, key)
			}
			sections[key] = val
		}
	}

	if !found {
		return nil, fmt.Errorf("no config file found (looked for %v)", paths)
	}

	cfg := &types.Config{Tasks: map[string]types.TaskSpec{}}
	if global != nil {
		if err := global.Decode(&cfg.Global); err != nil {
			return nil, fmt.Errorf("decode global section: %w", err)
		}
	}

	for _, name := range order {
		if reserved[name] {
			continue
		}
		cfg.TaskOrder = append(cfg.TaskOrder, name)

		node := sections[name]
		if node.Kind != yaml.MappingNode {
			continue
		}
		var spec types.TaskSpec
		if err := node.Decode(&spec); err != nil {
			return nil, fmt.Errorf("decode task %q: %w", name, err)
		}
		cfg.Tasks[name] = spec
	}

	return cfg, nil
}

// documentRoot unwraps the document node returned by yaml.Unmarshal.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return nil
}

// WorkDir resolves the global work_dir to an absolute path, defaulting to
// the current working directory, and creates it.
func WorkDir(cfg *types.Config) (string, error) {
	dir := cfg.Global.WorkDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve work dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create work dir %s: %w", abs, err)
	}
	return abs, nil
}

// WriteMerged writes the merged config back to path as YAML, global section
// first and tasks in TaskOrder, so the working directory carries the
// effective configuration of the last run.
func WriteMerged(cfg *types.Config, path string) error {
	root := &yaml.Node{Kind: yaml.MappingNode}

	appendSection := func(name string, value any) error {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: name}
		valNode := &yaml.Node{}
		if err := valNode.Encode(value); err != nil {
			return fmt.Errorf("encode section %q: %w", name, err)
		}
		root.Content = append(root.Content, keyNode, valNode)
		return nil
	}

	if err := appendSection("global", cfg.Global); err != nil {
		return err
	}
	for _, name := range cfg.TaskOrder {
		spec, ok := cfg.Tasks[name]
		if !ok {
			continue
		}
		if err := appendSection(name, spec); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshal merged config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write merged config: %w", err)
	}
	return nil
}
