package generation

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/keycontent/keycontent/types"
)

// jpegQuality is the encode quality for stored assets. Generated images
// arrive as large lossless payloads; re-encoding keeps assets small.
const jpegQuality = 90

// ConvertBase64Image decodes one base64 image payload (PNG, WebP or JPEG)
// and re-encodes it as JPEG. Any failure is an image-conversion error,
// which is fatal for the item being generated.
func ConvertBase64Image(b64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, types.WrapPipelineError(types.CodeImageConversion, "image payload is not valid base64", err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, types.WrapPipelineError(types.CodeImageConversion, "unable to decode image payload", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, types.WrapPipelineError(types.CodeImageConversion, fmt.Sprintf("unable to re-encode %s image as JPEG", format), err)
	}
	return buf.Bytes(), nil
}
