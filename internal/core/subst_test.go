package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute_Scalar(t *testing.T) {
	s := NewStore()
	s.Set("host", Scalar("example.org"))

	out, err := Substitute("ping -c1 variables.host", s)
	require.NoError(t, err)
	assert.Equal(t, "ping -c1 example.org", out)
}

func TestSubstitute_MultipleReferences(t *testing.T) {
	s := NewStore()
	s.Set("src", Scalar("/a"))
	s.Set("dst", Scalar("/b"))

	out, err := Substitute("cp variables.src variables.dst", s)
	require.NoError(t, err)
	assert.Equal(t, "cp /a /b", out)
}

func TestSubstitute_ListJoinsWithSpaces(t *testing.T) {
	s := NewStore()
	s.Set("pkgs", List("git", "curl", "jq"))

	out, err := Substitute("apt-get install variables.pkgs", s)
	require.NoError(t, err)
	assert.Equal(t, "apt-get install git curl jq", out)
}

func TestSubstitute_TextVerbatim(t *testing.T) {
	s := NewStore()
	s.Set("body", Text("line1\nline2"))

	out, err := Substitute("printf 'variables.body'", s)
	require.NoError(t, err)
	assert.Equal(t, "printf 'line1\nline2'", out)
}

func TestSubstitute_SinglePassNoRecursion(t *testing.T) {
	s := NewStore()
	s.Set("a", Scalar("variables.b"))
	s.Set("b", Scalar("boom"))

	// The replaced text is literal, never re-substituted.
	out, err := Substitute("echo variables.a", s)
	require.NoError(t, err)
	assert.Equal(t, "echo variables.b", out)
}

func TestSubstitute_UndefinedFails(t *testing.T) {
	s := NewStore()
	_, err := Substitute("echo variables.missing", s)
	assert.ErrorIs(t, err, ErrUndefinedVariable)
	assert.ErrorContains(t, err, "missing")
}

func TestSubstituteBestEffort_LeavesUndefinedInPlace(t *testing.T) {
	s := NewStore()
	s.Set("known", Scalar("yes"))

	out := SubstituteBestEffort("echo variables.known variables.unknown", s)
	assert.Equal(t, "echo yes variables.unknown", out)
}

func TestSubstituteArgv(t *testing.T) {
	s := NewStore()
	s.Set("file", Scalar("notes.txt"))

	out, err := SubstituteArgv([]string{"cat", "variables.file"}, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "notes.txt"}, out)

	_, err = SubstituteArgv([]string{"cat", "variables.nope"}, s)
	assert.ErrorIs(t, err, ErrUndefinedVariable)
}

func TestFormat_Positional(t *testing.T) {
	assert.Equal(t, "command -v git", Format("command -v {}", "git"))
	assert.Equal(t, "mv a b", Format("mv {} {}", "a", "b"))
}

func TestFormat_LeftoverPlaceholdersStay(t *testing.T) {
	assert.Equal(t, "echo a {}", Format("echo {} {}", "a"))
	assert.Equal(t, "no placeholders", Format("no placeholders", "x"))
}
