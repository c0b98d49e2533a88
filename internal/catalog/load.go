package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pathsentry/pathsentry/internal/operation"
)

// fileEntry mirrors Entry's YAML shape, per spec.md §6: "file format is a
// list of objects {regex, level, verdict, description, ops?}".
type fileEntry struct {
	Regex               string   `yaml:"regex,omitempty"`
	Glob                string   `yaml:"glob,omitempty"`
	Level               string   `yaml:"level"`
	Verdict             string   `yaml:"verdict"`
	Description         string   `yaml:"description"`
	Ops                 []string `yaml:"ops,omitempty"`
	SkipIfCodeExtension bool     `yaml:"skip_if_code_extension,omitempty"`
}

// file is the top-level shape of a catalog or pack YAML document.
type file struct {
	Entries        []fileEntry `yaml:"entries"`
	CodeExtensions []string    `yaml:"code_extensions,omitempty"`
}

// Load reads a catalog YAML file at path and merges it with the compiled-in
// Default catalog. A missing file is not an error — the baseline catalog
// is used as-is, mirroring policy.Load's fallback in the teacher repo.
func Load(path string) (*Catalog, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, err
	}

	return mergeFile(base, data, path)
}

// LoadPacks merges every *.yaml / *.yml file in dir into base, skipping
// files whose basename starts with "_" (the teacher's disabled-pack
// convention). A pack that fails to parse is skipped with a warning
// returned to the caller rather than aborting the whole load, since packs
// are optional curated extras, not the baseline catalog.
func LoadPacks(dir string, base *Catalog) (*Catalog, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil, nil
		}
		return nil, nil, err
	}

	var warnings []string
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isYAMLFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	result := base
	for _, name := range names {
		if strings.HasPrefix(strings.TrimSuffix(name, filepath.Ext(name)), "_") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		merged, err := mergeFile(result, data, path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		result = merged
	}

	return result, warnings, nil
}

func mergeFile(base *Catalog, data []byte, source string) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	entries := append([]Entry{}, base.Entries()...)
	for _, fe := range f.Entries {
		level, err := ParseLevel(fe.Level)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		verdict := Verdict(fe.Verdict)
		if verdict != Pass && verdict != Deny {
			return nil, fmt.Errorf("%s: entry %q has invalid verdict %q", source, fe.Description, fe.Verdict)
		}

		var ops []operation.Operation
		for _, o := range fe.Ops {
			op, ok := operation.Parse(o)
			if !ok {
				return nil, fmt.Errorf("%s: entry %q references unknown operation %q", source, fe.Description, o)
			}
			ops = append(ops, op)
		}

		entries = append(entries, Entry{
			RegexSrc:            fe.Regex,
			Glob:                fe.Glob,
			Level:               level,
			Verdict:             verdict,
			Description:         fe.Description,
			ApplicableOps:       ops,
			SkipIfCodeExtension: fe.SkipIfCodeExtension,
		})
	}

	extra := append([]string{}, f.CodeExtensions...)
	for ext := range base.CodeExtensions() {
		extra = append(extra, ext)
	}

	return New(entries, extra...)
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
