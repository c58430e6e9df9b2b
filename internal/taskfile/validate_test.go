package taskfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DuplicateTaskName(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  build:
    run: "true"
  build:
    run: "false"
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestValidate_RunRequiredUnlessTextOnly(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  empty: {}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
	assert.ErrorContains(t, err, "run is required")

	// A pure display task is fine.
	doc, err := Parse([]byte(`
tasks:
  note:
    text: Just a message.
`))
	require.NoError(t, err)
	assert.True(t, doc.Tasks[0].Run.IsZero())
}

func TestValidate_UnknownPrerequisiteHelper(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  deploy:
    run: "true"
    prerequisites: helpers.missing(git)
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
	assert.ErrorContains(t, err, "missing")
}

func TestValidate_UnknownHookHelper(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  deploy:
    run: "true"
    on_success: helpers.notify
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestValidate_BadCheckRegex(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  inspect:
    run: echo ok
    check: "([unclosed"
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestValidate_BadEachReference(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  loop:
    run: echo {}
    each: not_a_reference
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestSchema_RejectsScalarTask(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  broken: just a string
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestSchema_RejectsUnknownTaskField(t *testing.T) {
	_, err := Parse([]byte(`
tasks:
  typo:
    run: "true"
    show_ouput: true
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestSchema_RejectsHelperWithoutRun(t *testing.T) {
	_, err := Parse([]byte(`
helpers:
  hollow:
    text: no command
tasks:
  noop:
    run: "true"
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/no/such/taskfile.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentInvalid)
}
