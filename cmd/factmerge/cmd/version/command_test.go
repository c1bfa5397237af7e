package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/factmerge/internal/cmd/application"
)

func TestVersion(t *testing.T) {
	app := &application.Mock{
		VersionFunc: func() string { return "1.2.3" },
		CommitFunc:  func() string { return "abc123" },
	}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "factmerge 1.2.3\n")
	assert.Contains(t, out.String(), "commit:   abc123")
}

func TestVersionJSON(t *testing.T) {
	app := &application.Mock{
		VersionFunc:      func() string { return "1.2.3" },
		OutputFormatFunc: func() string { return "json" },
	}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `{"version":"1.2.3","commit":"unknown","date":"unknown","builtBy":"test"}`, out.String())
}
