package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArchive(t *testing.T, fileName, content string) []byte {
	t.Helper()

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	entry, err := writer.Create(fileName)
	require.NoError(t, err)
	_, err = entry.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buffer.Bytes()
}

func TestClient_FetchPairs(t *testing.T) {
	tests := []struct {
		name              string
		mockServerHandler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		wantPairs       []Pair
		wantErrorString string
	}{
		{
			name: "downloads and parses archive",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/spa-eng.zip", r.URL.Path)

				archive := buildArchive(t, "spa.txt",
					"Go.\tVe.\tCC-BY 2.0 (France)\n"+
						"Hello!\t¡Hola!\tCC-BY 2.0 (France)\n")
				_, err := w.Write(archive)
				require.NoError(t, err)
			},
			wantPairs: []Pair{
				{English: "Go.", Translation: "Ve."},
				{English: "Hello!", Translation: "¡Hola!"},
			},
		},
		{
			name: "archive without a sentence file",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				archive := buildArchive(t, "_about.csv", "nothing\n")
				_, err := w.Write(archive)
				require.NoError(t, err)
			},
			wantErrorString: "no sentence file in archive spa-eng.zip",
		},
		{
			name: "not found is not retried",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErrorString: "response error 404",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				test.mockServerHandler(t, w, r)
			}))
			defer server.Close()

			client := NewClient(0)
			defer func() {
				assert.NoError(t, client.Close())
			}()
			client.SetBaseURL(server.URL)

			pairs, err := client.FetchPairs(context.Background(), "spa")
			if test.wantErrorString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.wantErrorString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantPairs, pairs)
		})
	}
}

func TestParsePairs(t *testing.T) {
	t.Run("skips blank lines", func(t *testing.T) {
		pairs, err := ParsePairs(strings.NewReader("Hi.\tHola.\tattr\n\nBye.\tAdiós.\tattr\n"))
		require.NoError(t, err)
		assert.Equal(t, []Pair{
			{English: "Hi.", Translation: "Hola."},
			{English: "Bye.", Translation: "Adiós."},
		}, pairs)
	})

	t.Run("rejects malformed line", func(t *testing.T) {
		_, err := ParsePairs(strings.NewReader("only one field\n"))
		assert.ErrorContains(t, err, "line 1")
	})
}
