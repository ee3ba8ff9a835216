package inference

import (
	"bytes"

	"github.com/rs/zerolog"
)

// lineLogger logs complete lines of the token stream at debug level.
// One instance serves one request.
type lineLogger struct {
	log zerolog.Logger
	buf []byte
}

func (lw *lineLogger) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		idx := bytes.IndexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		if idx > 0 {
			lw.log.Debug().Str("line", string(lw.buf[:idx])).Msg("token stream")
		}
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (lw *lineLogger) Flush() {
	if len(lw.buf) > 0 {
		lw.log.Debug().Str("line", string(lw.buf)).Msg("token stream")
		lw.buf = nil
	}
}
