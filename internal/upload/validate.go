// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_upload

import (
	"errors"
	"fmt"
	"strings"
)

// MaxUploadBytes is the per-item size ceiling.
const MaxUploadBytes = 50 << 20 // 50 MiB

// ErrValidation marks pre-flight rejections. Items failing validation stay
// visible in the queue but are never transmitted.
var ErrValidation = errors.New("upload: validation failed")

// allowedContentTypes is the audio-format allow-list, enforced client-side
// before transmission and assumed enforced server-side as well.
var allowedContentTypes = map[string]struct{}{
	"audio/wav":    {},
	"audio/x-wav":  {},
	"audio/wave":   {},
	"audio/mpeg":   {},
	"audio/mp3":    {},
	"audio/ogg":    {},
	"audio/flac":   {},
	"audio/x-flac": {},
	"audio/webm":   {},
	"audio/mp4":    {},
	"audio/x-m4a":  {},
	"audio/aac":    {},
}

func validate(contentType string, size int) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	// strip parameters like "; codecs=opus"
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := allowedContentTypes[ct]; !ok {
		return fmt.Errorf("%w: unsupported audio format %q", ErrValidation, contentType)
	}
	if size == 0 {
		return fmt.Errorf("%w: empty file", ErrValidation)
	}
	if size > MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d MiB limit", ErrValidation, MaxUploadBytes>>20)
	}
	return nil
}
