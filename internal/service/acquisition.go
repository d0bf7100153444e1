package service

import (
	"context"
	"errors"
	"io"

	"measurement_collector/internal/logger"
)

const readBufferSize = 256

// AcquisitionService pumps raw bytes from the instrument's byte source into
// the collector. The source is whatever main() opened from config: a serial
// device node, a FIFO, a capture file, or stdin. No line buffering is assumed
// from the source; bytes are handed to the collector one at a time.
type AcquisitionService struct {
	collector Collector
	log       *logger.Logger
}

func NewAcquisitionService(collector Collector, log *logger.Logger) *AcquisitionService {
	return &AcquisitionService{collector: collector, log: log}
}

// Run reads until the source fails or ctx is cancelled. A blocking Read is
// not interrupted by ctx alone; main() closes the source on shutdown to
// unblock it.
func (s *AcquisitionService) Run(ctx context.Context, src io.Reader) {
	buf := make([]byte, readBufferSize)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := src.Read(buf)
		for i := 0; i < n; i++ {
			s.collector.Feed(buf[i])
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if s.log != nil {
				if errors.Is(err, io.EOF) {
					s.log.Infow("byte source closed")
				} else {
					s.log.Errorw("byte source read failed", "err", err)
				}
			}
			return
		}
	}
}
