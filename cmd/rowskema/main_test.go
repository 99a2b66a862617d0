package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaYAML = `
fields:
  - {name: id, label: ID, position: 1, type: int, required: true, constraints: [{kind: unique}]}
  - {name: name, position: 2, constraints: [{kind: lengthMax, length: 5}]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func runCLI(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := run(append([]string{"--no-color"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestValidate_OK(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "s.yaml", schemaYAML)
	a := writeFile(t, dir, "a.csv", "ID,name\n1,pen\n2,cup\n")
	b := writeFile(t, dir, "b.csv", "ID,name\n1,ink\n")

	code, out, _ := runCLI("validate", "-s", schema, "--jobs", "2", a, b)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, a+": 2 rows, 2 valid, 0 failed")
	assert.Contains(t, out, b+": 1 rows, 1 valid, 0 failed")
}

func TestValidate_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "s.yaml", schemaYAML)
	a := writeFile(t, dir, "a.csv", "ID,name\n1,pen\nx,toolong\n3\n1,ink\n4,ok\n")

	code, out, _ := runCLI("validate", "-s", schema, a)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "2 rows, 1 valid, 1 failed")

	code, out, _ = runCLI("validate", "-s", schema, "--continue-on-error", a)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "5 rows, 2 valid, 3 failed")
	assert.Contains(t, out, "[line:3, column:1] ID: 'x' is not a valid int")
	assert.Contains(t, out, "[line:4] expected 2 columns, found 1")
	assert.Contains(t, out, "[line:5, column:1] ID: duplicates the value in line 2")
}

func TestValidate_JSONAndLanguage(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "s.yaml", schemaYAML)
	a := writeFile(t, dir, "a.csv", "ID,name\n,pen\n")

	code, out, _ := runCLI("validate", "-s", schema, "--lang", "ja", "-o", "json", a)
	assert.Equal(t, 1, code)
	var results []fileResult
	require.NoError(t, gojson.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, "required", results[0].Errors[0].Code)
	assert.Equal(t, "値を入力してください", results[0].Errors[0].Message)
	assert.Equal(t, 2, results[0].Errors[0].Line)
}

func TestValidate_HeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "s.yaml", schemaYAML)
	a := writeFile(t, dir, "a.csv", "ID,title\n1,pen\n")

	code, out, _ := runCLI("validate", "-s", schema, a)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "header [ID, title] does not match [ID, name]")
}

func TestValidate_Errors(t *testing.T) {
	code, _, errOut := runCLI("validate", "missing.csv")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "--schema is required")

	dir := t.TempDir()
	schema := writeFile(t, dir, "s.yaml", schemaYAML)
	code, _, errOut = runCLI("validate", "-s", schema, "-o", "xml", "a.csv")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown output "xml"`)
}

func TestHeaders_LazyFromFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "s.json", `{"fields":[{"name":"id","type":"int","trim":true},{"name":"note"}]}`)
	a := writeFile(t, dir, "a.csv", "note,id\nx,1\n")

	code, out, _ := runCLI("headers", "-s", schema, a)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "POS")
	assert.Regexp(t, `1\s+note\s+note\s+format`, out)
	assert.Regexp(t, `2\s+id\s+id\s+trim > format\s+format > trim`, out)
}
