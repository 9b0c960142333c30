package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed tests/*.json
var testFiles embed.FS

//go:embed test.schema.json
var testSchema []byte

const schemaURL = "schema://bandprep/test.json"

var (
	catalogOnce sync.Once
	catalog     []*Test
	catalogErr  error
)

// Entry is a catalog listing.
type Entry struct {
	Skill  Skill
	Number int
	Title  string
	Items  int
}

// Catalog lists every embedded test, ordered by skill then number.
func Catalog() ([]Entry, error) {
	tests, err := allTests()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(tests))
	for _, t := range tests {
		entries = append(entries, Entry{
			Skill:  t.Skill,
			Number: t.Number,
			Title:  t.Title,
			Items:  t.Structure.ItemCount(),
		})
	}
	return entries, nil
}

// Load returns the test with the given skill and number.
func Load(skill Skill, number int) (*Test, error) {
	tests, err := allTests()
	if err != nil {
		return nil, err
	}
	for _, t := range tests {
		if t.Skill == skill && t.Number == number {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no %s test %d", skill, number)
}

func allTests() ([]*Test, error) {
	catalogOnce.Do(func() {
		catalog, catalogErr = loadFS(testFiles, "tests")
	})
	return catalog, catalogErr
}

// loadFS parses, schema-validates and cross-checks every *.json under dir.
func loadFS(fsys fs.FS, dir string) ([]*Test, error) {
	sch, err := compileSchema()
	if err != nil {
		return nil, err
	}

	names, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list test files: %w", err)
	}

	var tests []*Test
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		t, err := Parse(sch, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		tests = append(tests, t)
	}

	sort.Slice(tests, func(i, j int) bool {
		si, sj := skillOrder(tests[i].Skill), skillOrder(tests[j].Skill)
		if si != sj {
			return si < sj
		}
		return tests[i].Number < tests[j].Number
	})
	return tests, nil
}

// Parse validates raw against the test schema and decodes it.
func Parse(sch *jsonschema.Schema, raw []byte) (*Test, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var t Test
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode test: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(testSchema))
	if err != nil {
		return nil, fmt.Errorf("parse test schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile test schema: %w", err)
	}
	return sch, nil
}

// validate checks invariants the schema cannot express.
func (t *Test) validate() error {
	seen := make(map[string]bool)
	for _, it := range t.Structure.Items() {
		if seen[it.ID] {
			return fmt.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true

		switch it.Kind {
		case KindChoice:
			if len(it.Options) == 0 {
				return fmt.Errorf("choice item %q has no options", it.ID)
			}
		case KindSpeaking:
			if t.Skill != Speaking {
				return fmt.Errorf("speaking item %q in %s test", it.ID, t.Skill)
			}
		case KindEssay:
			if t.Skill != Writing {
				return fmt.Errorf("essay item %q in %s test", it.ID, t.Skill)
			}
		}
	}
	if len(seen) == 0 {
		return fmt.Errorf("test has no items")
	}

	for id := range t.Reference.AnswerKey {
		if !seen[id] {
			return fmt.Errorf("answer key references unknown item %q", id)
		}
	}
	for id := range t.Reference.ModelAnswers {
		if !seen[id] {
			return fmt.Errorf("model answers reference unknown item %q", id)
		}
	}
	if t.Skill.KeyGraded() && len(t.Reference.AnswerKey) == 0 {
		return fmt.Errorf("%s test has no answer key", t.Skill)
	}
	return nil
}

func skillOrder(s Skill) int {
	for i, k := range AllSkills {
		if k == s {
			return i
		}
	}
	return len(AllSkills)
}
