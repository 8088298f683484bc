package tasks

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Mode selects how schema violations in the stored value are handled on load.
type Mode int

const (
	// ModeOff loads whatever decodes.
	ModeOff Mode = iota
	// ModeWarn loads whatever decodes and logs each violation.
	ModeWarn
	// ModeStrict treats any violation as a corrupt value.
	ModeStrict
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeWarn:
		return "warn"
	case ModeStrict:
		return "strict"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode reads off, warn or strict.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return ModeOff, nil
	case "", "warn":
		return ModeWarn, nil
	case "strict":
		return ModeStrict, nil
	}
	return ModeOff, fmt.Errorf("unknown validation mode %q (want off, warn or strict)", s)
}

//go:embed schema.json
var schemaSource string

const schemaURL = "taskflow://schema/tasks.json"

var taskSchema = jsonschema.MustCompileString(schemaURL, schemaSource)

// validate checks raw against the embedded schema. Raw must already be
// well-formed JSON.
func validate(raw string) []error {
	var doc any
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &doc); err != nil {
		return []error{&ValidationError{Err: err}}
	}
	err := taskSchema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var out []error
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// jsonPointerToPath turns /2/status into [2].status.
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
