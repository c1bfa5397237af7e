package normalize

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/factmerge"
	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
	normalizer "github.com/agentstation/factmerge/pkg/normalize"
)

func run(t *testing.T, app *application.Mock, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "phone", args: []string{"Telephone", "(650) 253-0000"}, want: "+16502530000\n"},
		{name: "email", args: []string{"E-mail", "  John@Example.COM "}, want: "john@example.com\n"},
		{name: "currency", args: []string{"Total", "$1,234.5"}, want: "1234.50\n"},
		{name: "generic", args: []string{"Notes", "  Hello World "}, want: "hello world\n"},
		{name: "category override", args: []string{"notes", "12 Main St.", "--category", "address"}, want: "12 main street.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, &application.Mock{}, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestNormalizeCommandJSON(t *testing.T) {
	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}

	out, err := run(t, app, "Date of Birth", "1990-03-05")
	require.NoError(t, err)

	var got Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, Result{
		Field:           "Date of Birth",
		CanonicalField:  "date_of_birth",
		Category:        facts.CategoryDate,
		Value:           "1990-03-05",
		NormalizedValue: "1990-03-05",
	}, got)
}

func TestNormalizeCommandRegion(t *testing.T) {
	app := &application.Mock{
		MergerFunc: func(opts ...factmerge.Option) (*factmerge.Merger, error) {
			return factmerge.New(append([]factmerge.Option{factmerge.WithRegion("GB")}, opts...)...)
		},
	}

	out, err := run(t, app, "phone", "020 7946 0958")
	require.NoError(t, err)
	assert.Equal(t, "+442079460958\n", out)
}

func TestNormalizeCommandErrors(t *testing.T) {
	_, err := run(t, &application.Mock{}, "phone")
	require.Error(t, err)

	_, err = run(t, &application.Mock{}, "phone", "1", "--category", "colour")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNormalize(t *testing.T) {
	got := Normalize(normalizer.Default(), "Inv #", " ABC-1 ", "")
	assert.Equal(t, "inv_#", got.CanonicalField)
	assert.Equal(t, facts.CategoryGeneric, got.Category)
	assert.Equal(t, "abc-1", got.NormalizedValue)
}
