package answer

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/abhisek/proctor/internal/quiz"
)

// Encode serializes a value to its persisted form. Empty and nil values
// encode to "", the unanswered marker.
func Encode(v Value) string {
	if v == nil || v.Empty() {
		return ""
	}
	var payload any
	switch v := v.(type) {
	case MultipleChoice:
		payload = []int(v)
	case Ranking:
		payload = []int(v)
	case Matrix:
		m := make(map[string]bool, len(v))
		for cell, checked := range v {
			if checked {
				m[cell.Key()] = true
			}
		}
		payload = m
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

// Decode parses a persisted answer for a question type. Empty or malformed
// input yields the type's zero value; stored attempts must stay reviewable
// even when a record is corrupt.
func Decode(t quiz.QuestionType, s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero(t)
	}
	switch t {
	case quiz.TypeMultipleChoice:
		return MultipleChoice(decodeIndices(s))
	case quiz.TypeRanking:
		return Ranking(decodeIndices(s))
	case quiz.TypeMatrix:
		return decodeMatrix(s)
	}
	return nil
}

// decodeIndices accepts a JSON array of indices or a single bare index.
// Negative entries and duplicates are dropped.
func decodeIndices(s string) []int {
	var raw []int
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		var one int
		if err := json.Unmarshal([]byte(s), &one); err != nil {
			return []int{}
		}
		raw = []int{one}
	}
	out := make([]int, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for _, idx := range raw {
		if idx < 0 || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

func decodeMatrix(s string) Matrix {
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return Matrix{}
	}
	m := make(Matrix, len(raw))
	for key, val := range raw {
		if checked, ok := val.(bool); !ok || !checked {
			continue
		}
		cell, ok := parseCellKey(key)
		if !ok {
			continue
		}
		m[cell] = true
	}
	return m
}

func parseCellKey(key string) (Cell, bool) {
	rowStr, colStr, ok := strings.Cut(key, "-")
	if !ok {
		return Cell{}, false
	}
	row, err := strconv.Atoi(rowStr)
	if err != nil || row < 0 {
		return Cell{}, false
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 0 {
		return Cell{}, false
	}
	return Cell{Row: row, Col: col}, true
}

// EncodeAll encodes one value per question. The result always has exactly
// one entry per question; missing values encode as unanswered.
func EncodeAll(qz *quiz.Quiz, values []Value) []string {
	out := make([]string, len(qz.Questions))
	for i := range qz.Questions {
		if i < len(values) {
			out[i] = Encode(values[i])
		}
	}
	return out
}

// DecodeAll decodes a stored answer list against the quiz's question types.
// Missing entries decode as unanswered and extra entries are ignored.
func DecodeAll(qz *quiz.Quiz, answers []string) []Value {
	out := make([]Value, len(qz.Questions))
	for i, q := range qz.Questions {
		s := ""
		if i < len(answers) {
			s = answers[i]
		}
		out[i] = Decode(q.Type, s)
	}
	return out
}

// Empties returns an all-unanswered buffer for a quiz.
func Empties(qz *quiz.Quiz) []Value {
	return DecodeAll(qz, nil)
}

// Defaults returns the buffer a new attempt starts from. Ranking questions
// hold the original option order, which is what the student sees and
// submits unless they reorder it; other types start unanswered.
func Defaults(qz *quiz.Quiz) []Value {
	out := Empties(qz)
	for i, q := range qz.Questions {
		if q.Type == quiz.TypeRanking && len(q.Options) > 0 {
			out[i] = Ranking(quiz.IdentityOrder(len(q.Options)))
		}
	}
	return out
}
