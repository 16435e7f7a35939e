package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func TestValidate_AcceptsPNG(t *testing.T) {
	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	require.NoError(t, Validate(data))
}

func TestValidate_RejectsText(t *testing.T) {
	err := Validate([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValidate_RejectsOversize(t *testing.T) {
	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxSize)...)
	err := Validate(data)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestValidate_IgnoresDeclaredType(t *testing.T) {
	// GIF bytes are accepted no matter what the client claimed.
	data := append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 32)...)
	require.NoError(t, Validate(data))
}
