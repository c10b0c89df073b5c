package repocat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trailing whitespace stripped", "x  \ny\t", "x\ny"},
		{"blank lines dropped", "x\n\n  \ny", "x\ny"},
		{"crlf endings", "x\r\ny\r\n", "x\ny"},
		{"whitespace only", " \n\t\n   ", ""},
		{"empty", "", ""},
		{"single line no newline", "z", "z"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	assert := assert.New(t)

	inputs := []string{
		"x\n\n  \ny",
		"a\r\nb\r\n\r\nc",
		"  \n\t\n",
		"already\nnormalized",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(once, Normalize(once))
	}
}

func TestNewBlock(t *testing.T) {
	assert := assert.New(t)

	block, err := NewBlock("a.py", []byte("x\n\n  \ny"))
	assert.NoError(err)
	assert.Equal("a.py", block.Path)
	assert.Equal("x\ny", block.Body)
	assert.Equal("*** a.py\nx\ny\n", block.String())
}

func TestNewBlockBlankFile(t *testing.T) {
	assert := assert.New(t)

	// A file of only blank lines still yields a header, with an empty body.
	block, err := NewBlock("blank.py", []byte(" \n\t\n\n"))
	assert.NoError(err)
	assert.Equal("", block.Body)
	assert.Equal("*** blank.py\n\n", block.String())
}

func TestNewBlockInvalidUTF8(t *testing.T) {
	assert := assert.New(t)

	_, err := NewBlock("bad.py", []byte{0xff, 0xfe, 0xfd})
	assert.Error(err)
	assert.True(errors.Is(err, ErrDecode))
	assert.Contains(err.Error(), "bad.py")
}
