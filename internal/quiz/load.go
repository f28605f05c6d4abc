package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const definitionSchemaURL = "schema://quiz-definition.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// ErrNotFound is returned when a quiz ID is not present in a catalog.
var ErrNotFound = errors.New("quiz not found")

// ValidationError reports a quiz file that failed schema or semantic checks.
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid quiz %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Load reads and validates a single quiz file.
func Load(path string) (*Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	return Parse(data, filepath.Base(path))
}

// Parse decodes a quiz definition, validates it, and applies defaults.
// source names the definition in error messages.
func Parse(data []byte, source string) (*Quiz, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := definitionSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}

	var qz Quiz
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&qz); err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}

	applyDefaults(&qz)
	if err := Validate(&qz); err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	return &qz, nil
}

// LoadDir loads every *.json quiz in dir, sorted by file name.
// Quiz IDs must be unique across the directory.
func LoadDir(dir string) ([]*Quiz, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list quiz files: %w", err)
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	quizzes := make([]*Quiz, 0, len(paths))
	for _, p := range paths {
		qz, err := Load(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[qz.ID]; dup {
			return nil, fmt.Errorf("duplicate quiz id %q in %s and %s", qz.ID, prev, filepath.Base(p))
		}
		seen[qz.ID] = filepath.Base(p)
		quizzes = append(quizzes, qz)
	}
	return quizzes, nil
}

// Find returns the quiz with the given ID.
func Find(quizzes []*Quiz, id string) (*Quiz, error) {
	for _, qz := range quizzes {
		if qz.ID == id {
			return qz, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ForCourse filters quizzes by course. An empty course matches everything.
func ForCourse(quizzes []*Quiz, courseID string) []*Quiz {
	if courseID == "" {
		return quizzes
	}
	var out []*Quiz
	for _, qz := range quizzes {
		if strings.EqualFold(qz.CourseID, courseID) {
			out = append(out, qz)
		}
	}
	return out
}

func applyDefaults(qz *Quiz) {
	for i := range qz.Questions {
		q := &qz.Questions[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if q.Points <= 0 {
			q.Points = 1
		}
		if q.Type == TypeMultipleChoice && q.RequiredAnswersCount < 1 {
			q.RequiredAnswersCount = 1
		}
		if q.Type == TypeRanking && len(q.RankingCorrectOrder) == 0 {
			q.RankingCorrectOrder = IdentityOrder(len(q.Options))
		}
	}
}

func definitionSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip through JSON so the compiler sees plain decoded values.
		raw, err := json.Marshal(DefinitionSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal quiz schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse quiz schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(definitionSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add quiz schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(definitionSchemaURL)
	})
	return compiledSchema, compileErr
}
