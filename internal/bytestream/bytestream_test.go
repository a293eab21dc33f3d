package bytestream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAndLookahead(t *testing.T) {
	s, err := New([]byte("ab\ncd"), UTF8, Tentative)
	require.NoError(t, err)

	r, ok := s.Lookahead(0)
	require.True(t, ok)
	assert.Equal(t, 'a', r)

	r, ok = s.Read()
	require.True(t, ok)
	assert.Equal(t, 'a', r)

	r, ok = s.Lookahead(1)
	require.True(t, ok)
	assert.Equal(t, '\n', r)
}

func TestReconsume(t *testing.T) {
	s, _ := New([]byte("xy"), UTF8, Certain)
	r, _ := s.Read()
	assert.Equal(t, 'x', r)
	s.Reconsume()
	r, _ = s.Read()
	assert.Equal(t, 'x', r, "reconsume must replay the last read character")
}

func TestPositionTracking(t *testing.T) {
	s, _ := New([]byte("ab\ncd"), UTF8, Certain)
	for i := 0; i < 3; i++ {
		s.Read()
	}
	pos := s.Pos()
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 1, pos.Column)
}

func TestInvalidUTF8SubstitutesReplacementChar(t *testing.T) {
	s, _ := New([]byte{0xFF, 'a'}, UTF8, Certain)
	r, _ := s.Read()
	assert.Equal(t, rune(0xFFFD), r)
	r, _ = s.Read()
	assert.Equal(t, 'a', r)
}

func TestISO88591Decoding(t *testing.T) {
	s, _ := New([]byte{0xE9}, ISO88591, Certain) // é
	r, ok := s.Read()
	require.True(t, ok)
	assert.Equal(t, 'é', r)
}

func TestUTF16LEDecoding(t *testing.T) {
	s, err := New([]byte{'a', 0x00, 'b', 0x00, 0x2d, 0x4e}, UTF16LE, Certain) // "ab中"
	require.NoError(t, err)
	r, _ := s.Read()
	assert.Equal(t, 'a', r)
	r, _ = s.Read()
	assert.Equal(t, 'b', r)
	r, ok := s.Read()
	require.True(t, ok)
	assert.Equal(t, '中', r)
}

func TestUTF16BEDecoding(t *testing.T) {
	s, err := New([]byte{0x00, 'a', 0x00, 'b'}, UTF16BE, Certain)
	require.NoError(t, err)
	r, _ := s.Read()
	assert.Equal(t, 'a', r)
	r, _ = s.Read()
	assert.Equal(t, 'b', r)
}

func TestEncodingChangeBeforeCertain(t *testing.T) {
	s, _ := New([]byte{0xE9}, UTF8, Tentative)
	s.SetEncoding(ISO88591)
	r, _ := s.Lookahead(0)
	assert.Equal(t, 'é', r)
}

func TestCloseSealsConfidence(t *testing.T) {
	s, _ := New([]byte("x"), UTF8, Tentative)
	s.Close()
	assert.Equal(t, Certain, s.Confidence())
	assert.True(t, s.Closed())
}

func TestBadEncodingConfig(t *testing.T) {
	_, err := New([]byte("x"), Encoding(99), Certain)
	require.Error(t, err)
}
