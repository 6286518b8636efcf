package scan

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// DecodeRequest carries a base64-encoded camera frame from the client.
type DecodeRequest struct {
	ImageData string `json:"imageData" binding:"required"`
}

// DecodeResponse reports the decoded barcode string, if any.
type DecodeResponse struct {
	Success        bool    `json:"success"`
	Result         *Result `json:"result,omitempty"`
	Error          string  `json:"error,omitempty"`
	ProcessingTime int64   `json:"processingTime"` // milliseconds
	Timestamp      int64   `json:"timestamp"`
}

type Result struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

// Decoder decodes barcode images server-side, for clients whose own
// camera pipeline cannot.
type Decoder struct {
	readers []gozxing.Reader
}

func NewDecoder() *Decoder {
	return &Decoder{
		readers: []gozxing.Reader{
			oned.NewCode128Reader(),
			oned.NewEAN13Reader(),
			oned.NewEAN8Reader(),
			oned.NewCode39Reader(),
			qrcode.NewQRCodeReader(),
		},
	}
}

// Decode runs every configured reader against the frame and returns the
// first hit.
func (d *Decoder) Decode(req *DecodeRequest) *DecodeResponse {
	startTime := time.Now()

	response := &DecodeResponse{
		Timestamp: time.Now().UnixMilli(),
	}

	img, err := decodeImageData(req.ImageData)
	if err != nil {
		response.Error = fmt.Sprintf("Failed to decode image: %v", err)
		response.ProcessingTime = time.Since(startTime).Milliseconds()
		return response
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		response.Error = fmt.Sprintf("Failed to create bitmap: %v", err)
		response.ProcessingTime = time.Since(startTime).Milliseconds()
		return response
	}

	for _, reader := range d.readers {
		result, decodeErr := reader.Decode(bmp, nil)
		if decodeErr != nil || result == nil {
			continue
		}
		response.Success = true
		response.Result = &Result{
			Text:   result.GetText(),
			Format: result.GetBarcodeFormat().String(),
		}
		break
	}

	response.ProcessingTime = time.Since(startTime).Milliseconds()
	if !response.Success {
		response.Error = "No barcode found"
	}
	return response
}

func decodeImageData(imageData string) (image.Image, error) {
	// Accept both raw base64 and data URLs ("data:image/png;base64,...").
	if idx := strings.Index(imageData, ","); idx >= 0 && strings.HasPrefix(imageData, "data:") {
		imageData = imageData[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %w", err)
	}
	return img, nil
}
