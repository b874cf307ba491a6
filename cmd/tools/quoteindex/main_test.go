package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xfnw/ircqrs/internal/model/quote"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sampleCorpus(t *testing.T) string {
	return writeCorpus(t, map[string]string{
		"5.txt": "<person1> hello there!\n",
		"9.txt": "<person1> hi\n* blåhaj waves \n<person2> hey\n",
	})
}

func TestParticipantsYAML(t *testing.T) {
	out, err := run(t, "participants", "--dir", sampleCorpus(t))
	require.NoError(t, err)

	var got []quote.Participant
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, []quote.Participant{
		{Name: "blåhaj", Quotes: []uint32{9}},
		{Name: "person1", Quotes: []uint32{5, 9}},
		{Name: "person2", Quotes: []uint32{9}},
	}, got)
}

func TestParticipantJSON(t *testing.T) {
	out, err := run(t, "participants", "person1", "--dir", sampleCorpus(t), "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"person1","quotes":[5,9]}`, out)
}

func TestQuoteCommand(t *testing.T) {
	out, err := run(t, "quote", "9", "--dir", sampleCorpus(t), "-o", "json")
	require.NoError(t, err)

	var got struct {
		Quote      quote.Quote `json:"quote"`
		Navigation struct {
			Previous uint32 `json:"previous"`
			Next     uint32 `json:"next"`
		} `json:"navigation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, uint32(9), got.Quote.ID)
	assert.Equal(t, uint32(8), got.Navigation.Previous)
	assert.Equal(t, uint32(9), got.Navigation.Next)

	_, err = run(t, "quote", "7", "--dir", sampleCorpus(t))
	assert.ErrorIs(t, err, quote.ErrNotFound)

	_, err = run(t, "quote", "seven", "--dir", sampleCorpus(t))
	assert.Error(t, err)
}

func TestCheckReportsBadQuotes(t *testing.T) {
	dir := sampleCorpus(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "6.txt"), []byte{0xff, 0xfe}, 0o644))

	out, err := run(t, "check", "--dir", dir)
	require.Error(t, err)

	var rep report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.Quotes)
	require.Len(t, rep.Problems, 1)
	assert.Equal(t, uint32(6), rep.Problems[0].ID)
}

func TestCheckCleanCorpus(t *testing.T) {
	out, err := run(t, "check", "--dir", sampleCorpus(t), "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"quotes":2,"participants":3,"bounds":{"min":5,"max":9}}`, out)
}

func TestRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "check", "--dir", sampleCorpus(t), "-o", "xml")
	assert.Error(t, err)
}

func TestMalformedCorpus(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"notes.md": "hi"})
	_, err := run(t, "check", "--dir", dir)

	var integrityErr *quote.CorpusIntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}
