package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bmake/internal/core/domain"
	"go.trai.ch/bmake/internal/engine/parser"
	"go.trai.ch/zerr"
)

const exampleScript = `# build the project
CC = gcc
SRC = *.c
OBJ = $(patsubst .c,.o,$(SRC))

all: build test

build: clean
    $(CC) -c $(wildcard $(SRC))
	echo "done: OK=1"

clean:
    rm -rf out

test: build
    go test ./...
`

func parse(t *testing.T, text string) *domain.Script {
	t.Helper()
	s, err := parser.Parse("Bmakefile", strings.Split(text, "\n"))
	require.NoError(t, err)
	return s
}

func metadata(t *testing.T, err error) map[string]any {
	t.Helper()
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	return zErr.Metadata()
}

func TestParse_Example(t *testing.T) {
	s := parse(t, exampleScript)

	assert.Equal(t, "Bmakefile", s.Path())
	assert.Equal(t, []string{"all", "build", "clean", "test"}, s.TargetNames())

	vars := s.Variables()
	require.Len(t, vars, 3)
	assert.Equal(t, domain.Variable{Name: "CC", Value: "gcc", Line: 2}, vars[0])
	assert.Equal(t, "$(patsubst .c,.o,$(SRC))", vars[2].Value)

	all, ok := s.Target("all")
	require.True(t, ok)
	assert.Equal(t, []string{"build", "test"}, domain.Strings(all.Dependencies))
	assert.Empty(t, all.Commands)
	assert.Equal(t, 6, all.Line)

	build, ok := s.Target("build")
	require.True(t, ok)
	assert.Equal(t, []string{"clean"}, domain.Strings(build.Dependencies))
	assert.Equal(t, []string{
		"$(CC) -c $(wildcard $(SRC))",
		`echo "done: OK=1"`,
	}, build.Commands)

	clean, ok := s.Target("clean")
	require.True(t, ok)
	assert.Empty(t, clean.Dependencies)
	assert.Equal(t, []string{"rm -rf out"}, clean.Commands)
}

func TestParse_IsIdempotent(t *testing.T) {
	first := parse(t, exampleScript)
	second := parse(t, exampleScript)

	assert.Equal(t, first.Variables(), second.Variables())
	assert.Equal(t, first.Targets(), second.Targets())
}

func TestParse_CRLF(t *testing.T) {
	s := parse(t, "A = 1\r\nbuild: dep\r\n    echo $(A)\r\ndep:\r\n")

	v, ok := s.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	build, _ := s.Target("build")
	assert.Equal(t, []string{"echo $(A)"}, build.Commands)
	assert.Equal(t, []string{"dep"}, domain.Strings(build.Dependencies))
}

func TestParse_AssignmentKeepsTargetOpen(t *testing.T) {
	s := parse(t, "build:\n    echo one\nMODE = fast\n    echo two\n")

	build, _ := s.Target("build")
	assert.Equal(t, []string{"echo one", "echo two"}, build.Commands)

	v, _ := s.Lookup("MODE")
	assert.Equal(t, "fast", v)
}

func TestParse_LaterAssignmentOverwrites(t *testing.T) {
	s := parse(t, "A = one\nA=two\n")

	v, _ := s.Lookup("A")
	assert.Equal(t, "two", v)
	require.Len(t, s.Variables(), 1)
	assert.Equal(t, 2, s.Variables()[0].Line)
}

func TestParse_ValueWithEquals(t *testing.T) {
	s := parse(t, "FLAGS = -X main.v=1\n")

	v, _ := s.Lookup("FLAGS")
	assert.Equal(t, "-X main.v=1", v)
}

func TestParse_RedeclaredTargetOverwrites(t *testing.T) {
	s := parse(t, "build: a\n    echo one\nbuild: b\n    echo two\na:\nb:\n")

	assert.Equal(t, []string{"build", "a", "b"}, s.TargetNames())
	build, _ := s.Target("build")
	assert.Equal(t, []string{"b"}, domain.Strings(build.Dependencies))
	assert.Equal(t, []string{"echo two"}, build.Commands)
	assert.Equal(t, 3, build.Line)
}

func TestParse_UndefinedDependenciesAreAccepted(t *testing.T) {
	s := parse(t, "a: missing\n")

	a, ok := s.Target("a")
	require.True(t, ok)
	assert.Equal(t, []string{"missing"}, domain.Strings(a.Dependencies))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		sentinel error
		line     int
		lineText string
	}{
		{
			name:     "command before any header",
			text:     "# intro\n    echo hi\n",
			sentinel: domain.ErrUnrecognizedLine,
			line:     2,
			lineText: "echo hi",
		},
		{
			name:     "bare word",
			text:     "A = 1\noops\n",
			sentinel: domain.ErrUnrecognizedLine,
			line:     2,
			lineText: "oops",
		},
		{
			name:     "garbage after header",
			text:     "build:\n    echo hi\nnot a command\n",
			sentinel: domain.ErrUnrecognizedLine,
			line:     3,
			lineText: "not a command",
		},
		{
			name:     "indented header without target",
			text:     "  build: dep\n",
			sentinel: domain.ErrUnrecognizedLine,
			line:     1,
			lineText: "build: dep",
		},
		{
			name:     "empty target name",
			text:     ": dep\n",
			sentinel: domain.ErrEmptyTargetName,
			line:     1,
			lineText: ": dep",
		},
		{
			name:     "empty variable name",
			text:     "\n = value\n",
			sentinel: domain.ErrEmptyVariableName,
			line:     2,
			lineText: "= value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := parser.Parse("Bmakefile", strings.Split(tt.text, "\n"))

			require.Error(t, err)
			assert.Nil(t, s)
			require.ErrorIs(t, err, tt.sentinel)
			require.ErrorIs(t, err, domain.ErrParse)

			meta := metadata(t, err)
			assert.Equal(t, tt.line, meta["line"])
			assert.Equal(t, tt.lineText, meta["text"])
			assert.Equal(t, "Bmakefile", meta["script"])
		})
	}
}

func TestParse_InMemoryScriptOmitsScriptMetadata(t *testing.T) {
	_, err := parser.Parse("", []string{"oops"})

	require.ErrorIs(t, err, domain.ErrUnrecognizedLine)
	assert.NotContains(t, metadata(t, err), "script")
	assert.Contains(t, err.Error(), "line 1")
}

func TestParse_Empty(t *testing.T) {
	s := parse(t, "\n# only comments\n   \n")

	assert.Zero(t, s.TargetCount())
	assert.Empty(t, s.Variables())
}
