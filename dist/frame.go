//
// Tencent is pleased to support the open source community by making videoqa-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// videoqa-eval is licensed under the Apache License Version 2.0.
//
//

package dist

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

// maxFrameSize bounds a single collective payload. Gathered eval outputs are
// JSON text; anything past this limit indicates a protocol error.
const maxFrameSize = 1 << 30

// frame is one length-prefixed JSON message of the collective protocol.
type frame struct {
	// Seq is the collective sequence number.
	Seq uint64 `json:"seq"`
	// Rank is the sender's rank.
	Rank int `json:"rank"`
	// Op names the collective ("all_gather"); empty for the hello frame.
	Op string `json:"op,omitempty"`
	// Payload is the sender's contribution.
	Payload []byte `json:"payload,omitempty"`
	// Gathered carries the combined payloads in the coordinator's reply.
	Gathered [][]byte `json:"gathered,omitempty"`
}

func writeFrame(ctx context.Context, conn net.Conn, f *frame) error {
	body, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if err := applyDeadline(ctx, conn); err != nil {
		return err
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := conn.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := conn.Write(body); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}

func readFrame(ctx context.Context, conn net.Conn) (*frame, error) {
	if err := applyDeadline(ctx, conn); err != nil {
		return nil, err
	}
	var header [4]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > maxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	var f frame
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	return &f, nil
}

// applyDeadline projects the context deadline onto the connection so that
// blocked reads and writes unblock when the context expires.
func applyDeadline(ctx context.Context, conn net.Conn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		return conn.SetDeadline(deadline)
	}
	return conn.SetDeadline(time.Time{})
}
