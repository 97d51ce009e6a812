package delim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recell/recell/table"
)

func TestParseCSV(t *testing.T) {
	in := "name,dept\nalice,eng\nbob,sales\n"

	got, err := Parse(strings.NewReader(in), ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "dept"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"bob", "sales"}, got.Rows[1])
}

func TestParseCustomDelimiterAndSkipRows(t *testing.T) {
	in := "generated by exporter v2\nname;dept\nalice;eng\n"

	got, err := Parse(strings.NewReader(in), ParseOptions{Delimiter: ';', SkipRows: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "dept"}, got.Columns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"alice", "eng"}, got.Rows[0])
}

func TestParseQuotedFields(t *testing.T) {
	in := "name,notes\nalice,\"likes commas, a lot\"\n"

	got, err := Parse(strings.NewReader(in), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "likes commas, a lot", got.Rows[0][1])
}

func TestParseRaggedRowFails(t *testing.T) {
	in := "name,dept\nalice,eng\nbob\n"

	_, err := Parse(strings.NewReader(in), ParseOptions{})
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Row)
}

func TestParseMissingHeaderFails(t *testing.T) {
	_, err := Parse(strings.NewReader(""), ParseOptions{})

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseSkipRowsPastEOFFails(t *testing.T) {
	_, err := Parse(strings.NewReader("only one line\n"), ParseOptions{SkipRows: 3})

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestBytesRoundTrip(t *testing.T) {
	in := table.Table{
		Columns: []string{"name", "notes"},
		Rows: [][]string{
			{"alice", "likes commas, a lot"},
			{"bob", ""},
		},
	}

	data, err := Bytes(in, ',')
	require.NoError(t, err)
	require.NotEmpty(t, data)

	back, err := Parse(strings.NewReader(string(data)), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, in.Columns, back.Columns)
	assert.Equal(t, in.Rows, back.Rows)
}

func TestWriteCustomDelimiter(t *testing.T) {
	in := table.Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}},
	}

	data, err := Bytes(in, '\t')
	require.NoError(t, err)
	assert.Equal(t, "a\tb\n1\t2\n", string(data))
}
