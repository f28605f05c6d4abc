package quiz

// indexArray is a JSON Schema fragment for a list of non-negative indices.
var indexArray = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "integer", "minimum": 0},
}

// DefinitionSchema is the JSON Schema every quiz file must satisfy before
// semantic validation runs.
var DefinitionSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"id":                        map[string]any{"type": "string", "minLength": 1},
		"course_id":                 map[string]any{"type": "string"},
		"title":                     map[string]any{"type": "string", "minLength": 1},
		"time_limit_minutes":        map[string]any{"type": "integer", "minimum": 0},
		"passing_score":             map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"max_attempts":              map[string]any{"type": "integer", "minimum": 0},
		"requires_video_completion": map[string]any{"type": "boolean"},
		"rationale_video_url":       map[string]any{"type": "string"},
		"prerequisite_video_ids": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"availability": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"opens_at":  map[string]any{"type": "string"},
				"closes_at": map[string]any{"type": "string"},
			},
			"required": []any{"opens_at"},
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    questionSchema,
		},
	},
	"required": []any{"id", "title", "questions"},
}

var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":                     map[string]any{"type": "string"},
		"type":                   map[string]any{"type": "string", "enum": []any{"multiple_choice", "matrix", "ranking"}},
		"text":                   map[string]any{"type": "string", "minLength": 1},
		"points":                 map[string]any{"type": "integer", "minimum": 0},
		"explanation":            map[string]any{"type": "string"},
		"options":                map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"correct_answer":         indexArray,
		"required_answers_count": map[string]any{"type": "integer", "minimum": 1},
		"matrix_rows":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"matrix_columns":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"matrix_correct_answers": map[string]any{
			"type": "object",
			"patternProperties": map[string]any{
				"^[0-9]+$": map[string]any{
					"oneOf": []any{
						map[string]any{"type": "integer", "minimum": 0},
						indexArray,
					},
				},
			},
			"additionalProperties": false,
		},
		"ranking_correct_order": indexArray,
	},
	"required": []any{"type", "text"},
	"allOf": []any{
		typeRequires("multiple_choice", "options", "correct_answer"),
		typeRequires("matrix", "matrix_rows", "matrix_columns", "matrix_correct_answers"),
		typeRequires("ranking", "options"),
	},
}

// typeRequires builds an if/then clause making fields mandatory for one question type.
func typeRequires(qtype string, fields ...string) map[string]any {
	required := make([]any, len(fields))
	for i, f := range fields {
		required[i] = f
	}
	return map[string]any{
		"if": map[string]any{
			"properties": map[string]any{"type": map[string]any{"const": qtype}},
		},
		"then": map[string]any{"required": required},
	}
}
