package htmltok_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/htmltok"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenizerFixtureFile struct {
	Tests []tokenizerFixtureCase `json:"tests"`
}

type tokenizerFixtureCase struct {
	Description string          `json:"description"`
	Input       string          `json:"input"`
	Output      [][]interface{} `json:"output"`
	Errors      []struct {
		Code string `json:"code"`
		Line int    `json:"line"`
		Col  int    `json:"col"`
	} `json:"errors"`
}

func TestTokenizerFixtures(t *testing.T) {
	raw, err := os.ReadFile("../../testdata/html5lib/tokenizer.test")
	require.NoError(t, err)
	var file tokenizerFixtureFile
	require.NoError(t, json.Unmarshal(raw, &file))
	require.Len(t, file.Tests, 1)

	for _, tc := range file.Tests {
		log := errs.NewLog()
		stream, err := bytestream.New([]byte(tc.Input), bytestream.UTF8, bytestream.Certain)
		require.NoError(t, err)
		tok := htmltok.New(stream, htmltok.Data, log)

		var got []*htmltok.Token
		for {
			tk := tok.Next()
			if tk.Type == htmltok.EOF {
				break
			}
			got = append(got, tk)
		}

		require.Len(t, got, len(tc.Output), tc.Description)
		for i, row := range tc.Output {
			assert.Equal(t, "StartTag", row[0], tc.Description)
			assert.Equal(t, htmltok.StartTag, got[i].Type, tc.Description)
			assert.Equal(t, row[1], got[i].TagName, tc.Description)
			attrs := row[2].(map[string]interface{})
			require.Len(t, got[i].Attrs, len(attrs), tc.Description)
			for _, a := range got[i].Attrs {
				assert.Equal(t, attrs[a.Name], a.Value, tc.Description)
			}
			if len(row) > 3 {
				assert.Equal(t, row[3], got[i].SelfClosing, tc.Description)
			}
		}

		errsGot := log.Snapshot()
		require.Len(t, errsGot, len(tc.Errors), tc.Description)
		for i, e := range tc.Errors {
			assert.Equal(t, e.Code, string(errsGot[i].Code), tc.Description)
			assert.Equal(t, e.Line, errsGot[i].Location.Line, tc.Description)
			assert.Equal(t, e.Col, errsGot[i].Location.Column, tc.Description)
		}
	}
}
