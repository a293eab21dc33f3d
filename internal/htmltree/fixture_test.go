package htmltree_test

import (
	"os"
	"strings"
	"testing"

	"github.com/npillmayer/gosub/internal/debugdump"
	"github.com/npillmayer/gosub/internal/errs"
	"github.com/npillmayer/gosub/internal/htmltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type treeFixtureCase struct {
	data     string
	document string
}

// parseTreeConstructionFixture reads an html5lib-style .dat tree-construction
// test file: repeated #data/#errors/#document blocks separated by a blank
// line, per the format named in §6.
func parseTreeConstructionFixture(t *testing.T, path string) []treeFixtureCase {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var cases []treeFixtureCase
	var cur *treeFixtureCase
	var doc strings.Builder
	section := ""
	flush := func() {
		if cur != nil {
			cur.document = doc.String()
			cases = append(cases, *cur)
		}
	}
	for _, line := range strings.Split(string(raw), "\n") {
		switch line {
		case "#data":
			flush()
			cur = &treeFixtureCase{}
			doc.Reset()
			section = "data"
			continue
		case "#errors":
			section = "errors"
			continue
		case "#document":
			section = "document"
			continue
		}
		switch section {
		case "data":
			if cur.data != "" {
				cur.data += "\n"
			}
			cur.data += line
		case "document":
			if line == "" {
				continue
			}
			doc.WriteString(line)
			doc.WriteString("\n")
		}
	}
	flush()
	return cases
}

func TestTreeConstructionFixtures(t *testing.T) {
	cases := parseTreeConstructionFixture(t, "../../testdata/html5lib/tree-construction.dat")
	require.Len(t, cases, 2)

	for _, tc := range cases {
		log := errs.NewLog()
		arena := htmltree.ParseDocument([]byte(tc.data), log)
		got := debugdump.Html5LibFormat(arena, arena.Root())
		assert.Equal(t, tc.document, got, "input: %q", tc.data)
	}
}
