// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names the compression applied to an archive file. It is
// chosen by the file's final extension.
type Compression string

const (
	CompressionNone Compression = "none"

	// CompressionZstd (".zst") gives the best ratio for the repetitive
	// JSON and CBOR of archives.
	CompressionZstd Compression = "zstd"

	// CompressionLZ4 (".lz4") uses the LZ4 frame format.
	CompressionLZ4 Compression = "lz4"
)

// zstdEncoder and zstdDecoder are shared; both are safe for concurrent
// use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("report: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("report: zstd decoder initialization failed: " + err.Error())
	}
}

// splitCompression returns the compression implied by path and the
// path with the compression suffix removed.
func splitCompression(path string) (Compression, string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return CompressionZstd, strings.TrimSuffix(path, filepath.Ext(path))
	case ".lz4":
		return CompressionLZ4, strings.TrimSuffix(path, filepath.Ext(path))
	}
	return CompressionNone, path
}

func compress(compression Compression, data []byte) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case CompressionLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported compression %q", compression)
}

func decompress(compression Compression, data []byte) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return result, nil
	case CompressionLZ4:
		result, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unsupported compression %q", compression)
}
