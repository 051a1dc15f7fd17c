// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_upload

import "io"

// progressReader reports the fraction of the request body handed to the
// transport as it is read. The consumer keeps the fraction monotonic.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report func(float64)
}

func newProgressReader(r io.Reader, total int64, report func(float64)) *progressReader {
	return &progressReader{r: r, total: total, report: report}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.total > 0 {
		p.sent += int64(n)
		p.report(float64(p.sent) / float64(p.total))
	}
	return n, err
}
