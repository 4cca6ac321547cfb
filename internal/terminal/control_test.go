package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateInPlaceWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := NewControlFor(&buf, false)

	c.UpdateInPlace([]string{"one", "two"})
	c.UpdateInPlace([]string{"three"})

	assert.Equal(t, "one\ntwo\nthree\n", buf.String())
}

func TestUpdateInPlaceRewritesPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewControlFor(&buf, true)

	c.UpdateInPlace([]string{"a", "b"})
	assert.Equal(t, "\033[2K\ra\n\033[2K\rb\n", buf.String())

	buf.Reset()
	c.UpdateInPlace([]string{"c"})
	assert.Equal(t, "\033[2A\033[2K\rc\n\033[2K\r\n", buf.String())

	buf.Reset()
	c.Reset()
	c.UpdateInPlace([]string{"d"})
	assert.Equal(t, "\033[2K\rd\n", buf.String())
}
