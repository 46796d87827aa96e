package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		expectedSize int
		serverResp   func(t *testing.T, w http.ResponseWriter, r *http.Request)
		wantVectors  int
		wantErr      bool
	}{
		{
			name:         "successful embedding",
			texts:        []string{"a thriller about go players"},
			expectedSize: 3,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/embeddings" {
					t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
				}
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{{Embedding: []float64{0.1, 0.2, 0.3}}},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantVectors: 1,
			wantErr:     false,
		},
		{
			name:         "size mismatch",
			texts:        []string{"hello"},
			expectedSize: 4,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{{Embedding: []float64{0.1, 0.2}}},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:         "count mismatch",
			texts:        []string{"a", "b"},
			expectedSize: 2,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{{Embedding: []float64{0.1, 0.2}}},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:         "empty input",
			texts:        nil,
			expectedSize: 2,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				t.Error("server should not be called for empty input")
			},
			wantErr: true,
		},
		{
			name:         "server error",
			texts:        []string{"hello"},
			expectedSize: 2,
			serverResp: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.serverResp(t, w, r)
			}))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "test-key", "test-model", tt.expectedSize)
			vectors, err := client.EmbedTexts(context.Background(), tt.texts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EmbedTexts() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(vectors) != tt.wantVectors {
				t.Errorf("EmbedTexts() returned %d vectors, want %d", len(vectors), tt.wantVectors)
			}
		})
	}
}
