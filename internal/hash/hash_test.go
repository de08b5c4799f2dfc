package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Run("known vector", func(t *testing.T) {
		// sha256("") per FIPS 180-4
		assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Text(""))
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "DESLINDE DE RESPONSABILIDAD Y ACEPTACIÓN DE RIESGOS"
		assert.Equal(t, Text(text), Text(text))
	})

	t.Run("distinct texts produce distinct digests", func(t *testing.T) {
		assert.NotEqual(t, Text("version one"), Text("version two"))
		// A single-byte edit must change the digest.
		assert.NotEqual(t, Text("waiver text."), Text("waiver text "))
	})

	t.Run("hex encoded 256 bits", func(t *testing.T) {
		assert.Len(t, Text("anything"), 64)
	})
}

func TestBytes(t *testing.T) {
	assert.Equal(t, Text("abc"), Bytes([]byte("abc")))
	assert.NotEqual(t, Bytes([]byte{0x00}), Bytes([]byte{0x01}))
}
