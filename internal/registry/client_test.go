// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rapidaai/voice-studio/config"
	"github.com/rapidaai/voice-studio/pkg/commons"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	logger, err := commons.NewApplicationLogger(
		commons.Name("test-registry"),
		commons.Level("debug"),
	)
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	client := NewClient(&config.AppConfig{
		RegistryHost: ts.URL,
		RegistryKey:  "rpd-test-key",
	}, logger)
	return client, ts
}

func TestListVoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/voices", r.URL.Path)
		assert.Equal(t, "Bearer rpd-test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]VoiceProfile{
			{ID: "v1", Name: "Narrator", Trained: true, SampleCount: 12},
			{ID: "v2", Name: "Draft"},
		})
	})

	voices, err := client.ListVoices(context.Background())
	assert.NoError(t, err)
	assert.Len(t, voices, 2)
	assert.Equal(t, "Narrator", voices[0].Name)
	assert.True(t, voices[0].Trained)
	assert.False(t, voices[1].Trained)
}

func TestGetVoice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/voices/v1", r.URL.Path)
		json.NewEncoder(w).Encode(VoiceProfile{ID: "v1", Name: "Narrator", QualityScore: 0.92})
	})

	voice, err := client.GetVoice(context.Background(), "v1")
	assert.NoError(t, err)
	assert.Equal(t, 0.92, voice.QualityScore)
}

func TestCreateVoice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Narrator", body["name"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(VoiceProfile{ID: "v-new", Name: body["name"]})
	})

	voice, err := client.CreateVoice(context.Background(), "Narrator", "long-form reads")
	assert.NoError(t, err)
	assert.Equal(t, "v-new", voice.ID)

	_, err = client.CreateVoice(context.Background(), "  ", "")
	assert.Error(t, err)
}

func TestDeleteVoice(t *testing.T) {
	deleted := ""
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteVoice(context.Background(), "v1"))
	assert.Equal(t, "/v1/voices/v1", deleted)
}

func TestSynthesize(t *testing.T) {
	audio := []byte("RIFF....WAVE")
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/voices/v1/speech", r.URL.Path)
		var req SynthesisRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello there", req.Text)
		assert.Equal(t, 1.2, req.Speed)
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(audio)
	})

	result, err := client.Synthesize(context.Background(), "v1", SynthesisRequest{
		Text:  "hello there",
		Speed: 1.2,
	})
	assert.NoError(t, err)
	assert.Equal(t, audio, result.Audio)
	assert.Equal(t, "audio/wav", result.ContentType)

	_, err = client.Synthesize(context.Background(), "v1", SynthesisRequest{})
	assert.Error(t, err)
}

func TestErrorEnvelopeDecoded(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "voice not found"})
	})

	_, err := client.GetVoice(context.Background(), "ghost")
	assert.ErrorContains(t, err, "voice not found")
}

func TestErrorWithoutEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListVoices(context.Background())
	assert.ErrorContains(t, err, "status 500")
}
