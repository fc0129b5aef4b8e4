package base

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

// MaxFrameSize bounds the payload length a peer may declare. A prefix
// beyond this limit is treated as a protocol error and the connection is
// considered unusable (a corrupt prefix would otherwise make the reader
// allocate and wait for gigabytes that never arrive).
const MaxFrameSize = 16 * 1024 * 1024

// WriteFrame writes one frame to the connection with the format:
// - 4 bytes: payload length (uint32, big endian)
// - N bytes: payload
func WriteFrame(conn net.Conn, data []byte) error {
	if len(data) > MaxFrameSize {
		return fmt.Errorf("frame too large: %d bytes", len(data))
	}

	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// ReadFrame reads one frame from the reader using the provided buffer.
// If the buffer is too small, a new temporary buffer is allocated for the
// payload. The length prefix is read in full before any payload byte, and
// exactly the declared number of payload bytes is read - a partial frame is
// never returned.
func ReadFrame(r io.Reader, buf []byte) ([]byte, error) {
	// Check if buffer is large enough for the header
	if buf == nil || len(buf) < 4 {
		buf = make([]byte, 4)
	}

	// Read header
	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return nil, err
	}

	// Parse header
	contentLength := binary.BigEndian.Uint32(buf[:4])
	if contentLength > MaxFrameSize {
		return nil, fmt.Errorf("declared frame length %d exceeds limit %d", contentLength, MaxFrameSize)
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return []byte{}, nil
	}

	// Check if buffer is large enough for the payload
	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	// Read payload
	if _, err := io.ReadFull(r, buf[:contentLength]); err != nil {
		// A truncated payload must never surface as a short frame
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	return buf[:contentLength], nil
}
