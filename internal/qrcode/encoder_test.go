package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPNGEncoder_Encode(t *testing.T) {
	enc := NewPNGEncoder(128)

	url, err := enc.Encode([]byte(`{"paymentId":"abc","amount":10,"timestamp":1714557600000}`))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, dataURLPrefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, dataURLPrefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 128, img.Bounds().Dx())
}

func TestPNGEncoder_TooLarge(t *testing.T) {
	_, err := NewPNGEncoder(64).Encode(bytes.Repeat([]byte("x"), 4000))
	require.Error(t, err)
}
