package fields

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/fields"
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

func TestListFields(t *testing.T) {
	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}

	out, err := run(t, app)
	require.NoError(t, err)

	var list []fields.Field
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, len(fields.DefaultTables().Fields()))
}

func TestListFieldsByCategory(t *testing.T) {
	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}

	out, err := run(t, app, "--category", "PHONE")
	require.NoError(t, err)

	var list []fields.Field
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "phone_number", list[0].ID)
}

func TestListFieldsTable(t *testing.T) {
	app := &application.Mock{}

	out, err := run(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "email_address")
	assert.Contains(t, strings.ToUpper(out), "SYNONYMS")
}

func TestResolveLabels(t *testing.T) {
	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}

	out, err := run(t, app, "E-Mail", "Inv #", "Favourite Colour")
	require.NoError(t, err)

	var got []Resolution
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []Resolution{
		{Label: "E-Mail", Canonical: "email_address", Category: facts.CategoryEmail, Known: true},
		{Label: "Inv #", Canonical: "inv_#", Category: facts.CategoryGeneric, Known: false},
		{Label: "Favourite Colour", Canonical: "favourite_colour", Category: facts.CategoryGeneric, Known: false},
	}, got)
}

func TestResolveWithCustomTables(t *testing.T) {
	custom, err := fields.NewTables([]fields.Field{
		{ID: "vat_number", Category: facts.CategoryID, Synonyms: []string{"vat", "tax id"}},
	}, nil)
	require.NoError(t, err)

	got := Resolve(custom, []string{"Tax ID", "Email"})
	assert.Equal(t, "vat_number", got[0].Canonical)
	assert.Equal(t, facts.CategoryID, got[0].Category)
	assert.True(t, got[0].Known)
	assert.Equal(t, "email", got[1].Canonical)
	assert.False(t, got[1].Known)
}
