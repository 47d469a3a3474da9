// Package protocol implements the binary frame-batch wire format used by
// the mobile client: a big-endian int32 length prefix, a JSON metadata
// blob, then the raw frame payloads in metadata order.
package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"DRIVING_ANALYSIS/go-backend/internal/models"
)

var (
	// ErrMalformedMetadata reports an unparseable or incomplete JSON
	// metadata blob.
	ErrMalformedMetadata = errors.New("malformed batch metadata")
	// ErrTruncatedFrame reports a buffer that ends before a frame's
	// declared length.
	ErrTruncatedFrame = errors.New("truncated frame payload")
)

type frameMeta struct {
	FrameID *int32 `json:"frameId"`
	Length  *int32 `json:"length"`
}

type batchMeta struct {
	UserID    *int64      `json:"userId"`
	BatchID   *int32      `json:"batchId"`
	Timestamp *int64      `json:"timestamp"`
	Frames    []frameMeta `json:"frames"`
}

// Decode parses one complete binary message into a FrameBatch. Each
// message is self contained; no streaming decode.
func Decode(buf []byte) (*models.FrameBatch, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: message shorter than length prefix", ErrMalformedMetadata)
	}

	jsonLen := int32(binary.BigEndian.Uint32(buf[:4]))
	if jsonLen < 0 || int(jsonLen) > len(buf)-4 {
		return nil, fmt.Errorf("%w: metadata length %d out of range", ErrMalformedMetadata, jsonLen)
	}

	var meta batchMeta
	if err := json.Unmarshal(buf[4:4+jsonLen], &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	if meta.UserID == nil || meta.BatchID == nil || meta.Timestamp == nil {
		return nil, fmt.Errorf("%w: missing userId, batchId or timestamp", ErrMalformedMetadata)
	}

	batch := &models.FrameBatch{
		UserID:    *meta.UserID,
		BatchID:   *meta.BatchID,
		Timestamp: *meta.Timestamp,
		Frames:    make([]models.Frame, 0, len(meta.Frames)),
	}

	rest := buf[4+jsonLen:]
	for i, fm := range meta.Frames {
		if fm.Length == nil || fm.FrameID == nil {
			return nil, fmt.Errorf("%w: frame %d missing frameId or length", ErrMalformedMetadata, i)
		}
		n := int(*fm.Length)
		if n < 0 {
			return nil, fmt.Errorf("%w: frame %d has negative length", ErrMalformedMetadata, i)
		}
		if n > len(rest) {
			return nil, fmt.Errorf("%w: frame %d wants %d bytes, %d remain", ErrTruncatedFrame, i, n, len(rest))
		}
		data := make([]byte, n)
		copy(data, rest[:n])
		rest = rest[n:]
		batch.Frames = append(batch.Frames, models.Frame{FrameID: *fm.FrameID, Data: data})
	}

	return batch, nil
}

// Encode builds the binary message for a batch. The server never sends
// frames; this exists for the test client and round-trip tests.
func Encode(batch *models.FrameBatch) ([]byte, error) {
	metas := make([]map[string]int64, 0, len(batch.Frames))
	total := 0
	for _, f := range batch.Frames {
		metas = append(metas, map[string]int64{
			"frameId": int64(f.FrameID),
			"length":  int64(len(f.Data)),
		})
		total += len(f.Data)
	}

	metaJSON, err := json.Marshal(map[string]interface{}{
		"userId":    batch.UserID,
		"batchId":   batch.BatchID,
		"timestamp": batch.Timestamp,
		"frames":    metas,
	})
	if err != nil {
		return nil, fmt.Errorf("encode batch metadata: %w", err)
	}

	out := make([]byte, 0, 4+len(metaJSON)+total)
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(metaJSON)))
	out = append(out, prefix[:]...)
	out = append(out, metaJSON...)
	for _, f := range batch.Frames {
		out = append(out, f.Data...)
	}
	return out, nil
}
