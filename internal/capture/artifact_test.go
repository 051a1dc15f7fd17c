// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_capture

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestCreateWAVFileHeader(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x01, 0x02}, 1600)
	wav := createWAVFile(pcm, 16000, 1)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" {
		t.Error("missing RIFF marker")
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("riff size: got %d", got)
	}
	if string(wav[8:12]) != "WAVE" {
		t.Error("missing WAVE marker")
	}
	if string(wav[12:16]) != "fmt " {
		t.Error("missing fmt chunk")
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != AudioPCMFormat {
		t.Errorf("format tag: got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels: got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Errorf("sample rate: got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 32000 {
		t.Errorf("byte rate: got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != AudioBitsPerSample {
		t.Errorf("bits per sample: got %d", got)
	}
	if string(wav[36:40]) != "data" {
		t.Error("missing data chunk")
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size: got %d", got)
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Error("pcm payload mangled")
	}
}

func TestCreateWAVFileStereoBlockAlign(t *testing.T) {
	wav := createWAVFile(nil, 44100, 2)
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 44100*2*AudioBytesPerSample {
		t.Errorf("byte rate: got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[32:34]); got != 2*AudioBytesPerSample {
		t.Errorf("block align: got %d", got)
	}
}

func TestFinalizeArtifactEmptyPCM(t *testing.T) {
	artifact := finalizeArtifact(nil, CaptureOptions{SampleRate: 16000, Channels: 1}, 0)
	if artifact.ContentType != ArtifactContentType {
		t.Errorf("content type: got %s", artifact.ContentType)
	}
	if len(artifact.Data) != 44 {
		t.Fatalf("expected header-only WAV, got %d bytes", len(artifact.Data))
	}
	if artifact.DurationSeconds != 0 {
		t.Errorf("duration: got %d", artifact.DurationSeconds)
	}
}
