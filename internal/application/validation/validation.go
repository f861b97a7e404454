package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"todo-api/internal/domain/model"
	"todo-api/pkg/msg"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	TitleMaxLength       = 255
	DescriptionMaxLength = 1000
)

//go:embed todo.schema.json
var todoSchemaJSON string

var todoSchema = jsonschema.MustCompileString("todo.schema.json", todoSchemaJSON)

// fieldOrder decides which violation is reported when several fields are invalid
var fieldOrder = map[string]int{"title": 0, "description": 1, "completed": 2}

// Error describes the first invalid field of a request body. Field is empty
// when the body itself could not be read.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// DecodeTodo validates body against the todo schema and decodes it.
// Unknown properties such as id or createdAt are ignored.
func DecodeTodo(body []byte) (model.TodoDTO, error) {
	var dto model.TodoDTO

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		return dto, invalidBody()
	}
	if decoder.More() {
		return dto, invalidBody()
	}

	if err := todoSchema.Validate(document); err != nil {
		return dto, toError(err)
	}

	if err := json.Unmarshal(body, &dto); err != nil {
		return dto, invalidBody()
	}
	// the schema pattern misses separators outside \s and \p{Z}, e.g. U+0085
	if strings.TrimSpace(dto.Title) == "" {
		return dto, &Error{Field: "title", Message: msg.GetMessage("todo.validation.blank", "title")}
	}
	return dto, nil
}

func invalidBody() *Error {
	return &Error{Message: msg.GetMessage("todo.error.invalid-body")}
}

func toError(err error) *Error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return invalidBody()
	}

	var leaves []*Error
	collect(ve, &leaves)
	if len(leaves) == 0 {
		return invalidBody()
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		return rank(leaves[i].Field) < rank(leaves[j].Field)
	})
	return leaves[0]
}

func rank(field string) int {
	if r, ok := fieldOrder[field]; ok {
		return r
	}
	return len(fieldOrder)
}

func collect(err *jsonschema.ValidationError, leaves *[]*Error) {
	if len(err.Causes) == 0 {
		if leaf := describe(err); leaf != nil {
			*leaves = append(*leaves, leaf)
		}
		return
	}
	for _, cause := range err.Causes {
		collect(cause, leaves)
	}
}

// describe turns a leaf violation into a user-facing message keyed by the failing keyword
func describe(err *jsonschema.ValidationError) *Error {
	keyword := err.KeywordLocation[strings.LastIndex(err.KeywordLocation, "/")+1:]
	field := strings.TrimPrefix(err.InstanceLocation, "/")

	switch keyword {
	case "required":
		field = missingProperty(err.Message)
		return &Error{Field: field, Message: msg.GetMessage("todo.validation.required", field)}
	case "minLength", "pattern":
		return &Error{Field: field, Message: msg.GetMessage("todo.validation.blank", field)}
	case "maxLength":
		return &Error{Field: field, Message: msg.GetMessage("todo.validation.too-long", field, strconv.Itoa(maxLength(field)))}
	case "type":
		if field == "" {
			return invalidBody()
		}
		return &Error{Field: field, Message: msg.GetMessage("todo.validation.type", field, expectedType(field))}
	}
	return &Error{Field: field, Message: err.Message}
}

func missingProperty(message string) string {
	start := strings.Index(message, "'")
	end := strings.LastIndex(message, "'")
	if start < 0 || end <= start {
		return "title"
	}
	return message[start+1 : end]
}

func maxLength(field string) int {
	if field == "description" {
		return DescriptionMaxLength
	}
	return TitleMaxLength
}

func expectedType(field string) string {
	if field == "completed" {
		return "boolean"
	}
	return "string"
}
