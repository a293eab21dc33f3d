package cssast_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/npillmayer/gosub/internal/bytestream"
	"github.com/npillmayer/gosub/internal/cssast"
	"github.com/npillmayer/gosub/internal/csstok"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/stretchr/testify/require"
)

type anPlusBCase struct {
	Input string `json:"input"`
	A     int    `json:"a"`
	B     int    `json:"b"`
}

func TestAnPlusBFixtures(t *testing.T) {
	raw, err := os.ReadFile("../../testdata/css/anplusb.test")
	require.NoError(t, err)
	var cases []anPlusBCase
	require.NoError(t, json.Unmarshal(raw, &cases))
	require.Len(t, cases, 3)

	for _, tc := range cases {
		log := errs.NewLog()
		stream, err := bytestream.New([]byte(tc.Input), bytestream.UTF8, bytestream.Certain)
		require.NoError(t, err)
		toks := csstok.New(stream, log).Tokens()

		a, b, ok := cssast.ParseAnPlusB(toks, log)
		require.True(t, ok, "input: %s", tc.Input)
		require.Equal(t, tc.A, a, "input: %s", tc.Input)
		require.Equal(t, tc.B, b, "input: %s", tc.Input)
	}
}
