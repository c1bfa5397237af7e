package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/factmerge/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "field", ID: "phone_number"}
		assert.Equal(t, "field phone_number not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", pkgerrors.NewNotFoundError("field", "x"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("sources", 0, "must not be empty")
		assert.Equal(t, "validation failed for field sources: must not be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad batch"}
		assert.Equal(t, "validation failed: bad batch", err.Error())
	})

	t.Run("joined", func(t *testing.T) {
		err := pkgerrors.Join(errors.New("first"), pkgerrors.NewValidationError("f", nil, "m"))
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestUnsupportedError(t *testing.T) {
	err := &pkgerrors.UnsupportedError{File: "scan.docx", Kind: ".docx"}
	assert.Equal(t, `unsupported file type ".docx" for scan.docx`, err.Error())
	assert.True(t, pkgerrors.IsUnsupported(err))

	bare := &pkgerrors.UnsupportedError{File: "README"}
	assert.Equal(t, "unsupported file type for README", bare.Error())
}

func TestConfigError(t *testing.T) {
	base := errors.New("no such file")
	err := pkgerrors.NewConfigError("tables", "cannot load override", base)
	assert.Equal(t, "configuration error in tables: cannot load override", err.Error())
	assert.ErrorIs(t, err, base)

	noComponent := &pkgerrors.ConfigError{Message: "threshold out of range"}
	assert.Equal(t, "configuration error: threshold out of range", noComponent.Error())
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{
			name: "file and line",
			err:  &pkgerrors.ParseError{Format: "csv", File: "a.csv", Line: 3, Message: "bare quote"},
			want: "parse error in csv at a.csv:3: bare quote",
		},
		{
			name: "file only",
			err:  &pkgerrors.ParseError{Format: "pdf", File: "b.pdf", Message: "malformed xref"},
			want: "parse error in pdf file b.pdf: malformed xref",
		},
		{
			name: "no file",
			err:  &pkgerrors.ParseError{Format: "yaml", Message: "bad indent"},
			want: "yaml parse error: bad indent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("csv", "x", nil))
	assert.NoError(t, pkgerrors.WrapValidation("x", nil))

	base := errors.New("permission denied")

	err := pkgerrors.WrapIO("open", "/tmp/a.csv", base)
	require.Error(t, err)
	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Operation)
	assert.ErrorIs(t, err, base)

	err = pkgerrors.WrapParse("csv", "a.csv", base)
	var parseErr *pkgerrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "permission denied", parseErr.Message)

	err = pkgerrors.WrapValidation("threshold", base)
	assert.True(t, pkgerrors.IsValidationError(err))
}
