package plate

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/aisa-it/aiplan/docedit/internal/docedit/editor/edtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "empty paragraph",
			json: `[{"type":"p","children":[{"text":""}]}]`,
		},
		{
			name: "marks",
			json: `[{"type":"p","children":[{"text":"a","bold":true},{"text":"b","bold":true,"italic":true},{"text":"c","underline":true,"strikethrough":true}]}]`,
		},
		{
			name: "lists",
			json: `[{"type":"ul","children":[{"type":"li","children":[{"text":"one"}]}]},{"type":"ol","children":[{"type":"li","children":[{"text":"two"}]}]}]`,
		},
		{
			name: "table",
			json: `[{"type":"table","children":[{"type":"tr","children":[{"type":"td","children":[{"text":"A"}]},{"type":"td","children":[{"text":"B"}]}]}]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSON(bytes.NewReader([]byte(tt.json)))
			require.NoError(t, err)

			data, err := Serialize(doc)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			again, err := ParseJSON(bytes.NewReader(data))
			require.NoError(t, err)
			assert.True(t, edtypes.Equal(*doc, *again))
		})
	}
}

func TestDocumentJSONRegistered(t *testing.T) {
	doc := edtypes.NewDocument(edtypes.NewParagraph(edtypes.NewText("x", edtypes.MarkBold)))

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"p","children":[{"text":"x","bold":true}]}]`, string(data))

	var back edtypes.Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, edtypes.Equal(doc, back))
}
