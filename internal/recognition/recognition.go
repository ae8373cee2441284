// Package recognition adapts the external plate-recognition capability to
// the verification path. The OCR pipeline itself (frame sampling, image
// enhancement, text extraction) lives outside this service; we only consume
// its candidate string and confidence score.
package recognition

import (
	"context"
	"log/slog"

	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
)

// Reading is one recognition result: a candidate plate and the recognizer's
// confidence in [0,1].
type Reading struct {
	Plate      string
	Confidence float64
}

// Recognizer converts raw media into a plate reading. Implemented by the
// external recognition collaborator.
type Recognizer interface {
	Recognize(ctx context.Context, media []byte) (Reading, error)
}

// ThresholdGate filters recognizer output by confidence. A reading below
// the threshold is reported as absent — no plate supplied — never as an
// invalid plate; confidence filtering happens before the decision engine
// ever sees the input.
type ThresholdGate struct {
	recognizer Recognizer
	threshold  float64
	logger     *slog.Logger
}

func NewThresholdGate(recognizer Recognizer, threshold float64, logger *slog.Logger) *ThresholdGate {
	return &ThresholdGate{recognizer: recognizer, threshold: threshold, logger: logger}
}

// ReadPlate runs recognition and returns the normalized plate, or the zero
// Plate when nothing was recognized with sufficient confidence. The server
// runs without a recognizer when the OCR collaborator is not deployed; in
// that configuration only pre-scored readings (Accept) are available.
func (g *ThresholdGate) ReadPlate(ctx context.Context, media []byte) (id.Plate, error) {
	if g.recognizer == nil {
		return "", dErrors.New(dErrors.CodeUnavailable, "plate recognizer not configured")
	}
	reading, err := g.recognizer.Recognize(ctx, media)
	if err != nil {
		return "", err
	}
	return g.Accept(ctx, reading), nil
}

// Accept applies the confidence threshold to an already-obtained reading.
func (g *ThresholdGate) Accept(ctx context.Context, reading Reading) id.Plate {
	if reading.Plate == "" {
		return ""
	}
	if reading.Confidence < g.threshold {
		g.logger.DebugContext(ctx, "plate candidate below confidence threshold",
			"candidate", reading.Plate,
			"confidence", reading.Confidence,
			"threshold", g.threshold,
		)
		return ""
	}
	return id.NormalizePlate(reading.Plate)
}
