// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"bytes"
	"encoding/binary"
)

const (
	AudioBytesPerSample = 2  // LINEAR16 → 2 bytes per sample
	AudioBitsPerSample  = 16 // LINEAR16 → 16 bits per sample
	AudioPCMFormat      = 1  // WAV PCM format tag
)

// ArtifactContentType is the content type of every finished capture artifact.
const ArtifactContentType = "audio/wav"

// Artifact is the finalized audio produced by stopping a capture session.
type Artifact struct {
	Data        []byte
	ContentType string
	SampleRate  uint32
	Channels    uint16
	// DurationSeconds is the elapsed recording time at stop, whole seconds.
	DurationSeconds int
}

// finalizeArtifact wraps buffered PCM into a WAV container. An empty PCM
// buffer yields a valid zero-length WAV.
func finalizeArtifact(pcm []byte, opts CaptureOptions, elapsed int) *Artifact {
	return &Artifact{
		Data:            createWAVFile(pcm, opts.SampleRate, opts.Channels),
		ContentType:     ArtifactContentType,
		SampleRate:      opts.SampleRate,
		Channels:        opts.Channels,
		DurationSeconds: elapsed,
	}
}

func createWAVFile(pcmData []byte, sampleRate uint32, channels uint16) []byte {
	var buf bytes.Buffer
	bps := int(sampleRate) * int(channels) * AudioBytesPerSample

	buf.Write([]byte("RIFF"))
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcmData)))
	buf.Write([]byte("WAVE"))

	buf.Write([]byte("fmt "))
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioPCMFormat))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(bps))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioBytesPerSample*channels))
	binary.Write(&buf, binary.LittleEndian, uint16(AudioBitsPerSample))

	// data chunk
	buf.Write([]byte("data"))
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcmData)))
	buf.Write(pcmData)

	return buf.Bytes()
}
