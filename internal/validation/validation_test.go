package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Token string `validate:"required,startswith=tok_"`
	Body  string `validate:"required,min=5"`
}

var sampleMessages = Messages{
	"Token.required":   "token missing",
	"Token.startswith": "token malformed",
	"Body.min":         "body too short",
}

func TestStruct(t *testing.T) {
	cases := []struct {
		name    string
		input   sample
		kind    Kind
		field   string
		message string
	}{
		{name: "required", input: sample{Body: "hello"}, kind: KindRequired, field: "Token", message: "token missing"},
		{name: "prefix", input: sample{Token: "abc", Body: "hello"}, kind: KindMalformedCredential, field: "Token", message: "token malformed"},
		{name: "too short", input: sample{Token: "tok_1", Body: "hey"}, kind: KindTooShort, field: "Body", message: "body too short"},
		{name: "fallback message", input: sample{Token: "tok_1"}, kind: KindRequired, field: "Body", message: "Body is invalid (required)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.input, sampleMessages)
			require.Error(t, err)

			verr, ok := As(err)
			require.True(t, ok, "expected validation error, got %T", err)
			assert.Equal(t, tc.kind, verr.Kind)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.message, verr.Error())
		})
	}
}

func TestStructValid(t *testing.T) {
	require.NoError(t, Struct(sample{Token: "tok_1", Body: "hello"}, sampleMessages))
}

func TestAsWrapped(t *testing.T) {
	err := fmt.Errorf("reading input: %w", New("file", KindTooLarge, "too big"))

	verr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindTooLarge, verr.Kind)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestKindValues(t *testing.T) {
	kinds := map[Kind]string{
		KindRequired:            "required",
		KindTooShort:            "too_short",
		KindMalformedCredential: "malformed_credential",
		KindTooLarge:            "too_large",
		KindUnsupported:         "unsupported_format",
		KindMissingData:         "missing_data",
	}

	for kind, want := range kinds {
		assert.Equal(t, want, string(kind))
	}
}
