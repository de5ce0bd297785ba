package dataset

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compress writes src to dst as a zstd stream readable by Open.
func Compress(dst io.Writer, src io.Reader) (int64, error) {
	zw, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, fmt.Errorf("create zstd writer: %w", err)
	}

	n, err := io.Copy(zw, src)
	if err != nil {
		zw.Close()
		return n, fmt.Errorf("compress dataset: %w", err)
	}
	if err := zw.Close(); err != nil {
		return n, fmt.Errorf("flush zstd stream: %w", err)
	}
	return n, nil
}
