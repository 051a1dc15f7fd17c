// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_upload

import (
	"bytes"
	"strings"
	"testing"
)

func TestItemProgressMonotonic(t *testing.T) {
	it := newItem("a.wav", "audio/wav", SourceFile, []byte{1, 2, 3})
	it.begin()
	it.setProgress(0.5)
	it.setProgress(0.2)
	st, ok := it.Status().(InProgress)
	if !ok {
		t.Fatalf("expected InProgress, got %T", it.Status())
	}
	if st.Fraction != 0.5 {
		t.Fatalf("fraction moved backwards: %f", st.Fraction)
	}
	it.setProgress(2.0)
	if st := it.Status().(InProgress); st.Fraction != 1 {
		t.Fatalf("fraction not capped at 1: %f", st.Fraction)
	}
}

func TestItemProgressIgnoredOutsideInProgress(t *testing.T) {
	it := newItem("a.wav", "audio/wav", SourceFile, []byte{1})
	it.setProgress(0.5)
	if _, ok := it.Status().(Pending); !ok {
		t.Fatalf("pending item mutated by progress: %T", it.Status())
	}
	it.begin()
	it.complete()
	it.setProgress(0.1)
	if _, ok := it.Status().(Completed); !ok {
		t.Fatalf("completed item mutated by progress: %T", it.Status())
	}
}

func TestItemViewPerStatus(t *testing.T) {
	it := newItem("a.wav", "audio/wav", SourceFile, bytes.Repeat([]byte{0}, 512))
	if v := it.View(); v.Status != "pending" || v.Size != 512 {
		t.Fatalf("pending view: %+v", v)
	}
	it.begin()
	it.setProgress(0.25)
	if v := it.View(); v.Status != "in_progress" || v.Progress != 0.25 {
		t.Fatalf("in_progress view: %+v", v)
	}
	it.fail("registry said no")
	v := it.View()
	if v.Status != "failed" || !strings.Contains(v.Error, "registry said no") {
		t.Fatalf("failed view: %+v", v)
	}
	if !it.terminal() {
		t.Fatal("failed item must be terminal")
	}
}

func TestProgressReaderReportsFractions(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 1000)
	var got []float64
	pr := newProgressReader(bytes.NewReader(payload), int64(len(payload)), func(f float64) {
		got = append(got, f)
	})
	buf := make([]byte, 250)
	for {
		if _, err := pr.Read(buf); err != nil {
			break
		}
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 reports, got %d: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("fractions regressed: %v", got)
		}
	}
	if got[len(got)-1] != 1 {
		t.Fatalf("final fraction: %f", got[len(got)-1])
	}
}
