package pdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-agreement-api/internal/agreement"
	"github.com/noah-isme/student-agreement-api/internal/models"
)

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.Black)
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func sampleForm() map[string]string {
	return map[string]string{
		"fullName":  "Jane Doe",
		"email":     "jane@example.com",
		"phone":     "5550100",
		"course":    "Go 101",
		"studentId": "S-42",
		"date":      "2026-08-31",
	}
}

func TestRendererProducesPDF(t *testing.T) {
	renderer := NewRenderer(agreement.Default())

	out, err := renderer.Render(sampleForm(), pngDataURL(t), nil, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererWithApprovalBlock(t *testing.T) {
	renderer := NewRenderer(agreement.Default())
	admin := &models.AdminData{AdminName: "Mr. Lee", Notes: "Welcome aboard"}

	out, err := renderer.Render(sampleForm(), pngDataURL(t), admin, pngDataURL(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererToleratesMalformedSignature(t *testing.T) {
	renderer := NewRenderer(agreement.Default())

	cases := map[string]string{
		"not a data url":  "hello",
		"bad base64":      "data:image/png;base64,@@@@",
		"corrupt payload": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a png")),
		"unknown type":    "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("gif")),
		"empty":           "",
	}
	for name, dataURL := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := renderer.Render(sampleForm(), dataURL, nil, "")
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}

func TestRendererSparseForm(t *testing.T) {
	renderer := NewRenderer(agreement.Default())

	out, err := renderer.Render(map[string]string{}, "", nil, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestDecodeDataURL(t *testing.T) {
	payload, imageType, err := decodeDataURL(pngDataURL(t))
	require.NoError(t, err)
	assert.Equal(t, "PNG", imageType)
	assert.NotEmpty(t, payload)

	_, _, err = decodeDataURL("data:image/png;base64,AAAA")
	assert.Error(t, err)
}
