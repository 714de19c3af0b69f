// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPSource(t *testing.T) {
	t.Run("will fetch and parse a published layer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[train]\nbatch_size_fit = 6\n"))
		}))
		defer srv.Close()

		l, err := NewHTTP(srv.URL + "/general.ini").Load()
		require.NoError(t, err)

		v, ok := l.Sections()[0].Value("batch_size_fit")
		require.True(t, ok)
		require.Equal(t, "6", v)
	})

	t.Run("will retry a failed fetch", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("[train]\nbatch_size_fit = 6\n"))
		}))
		defer srv.Close()

		l, err := NewHTTP(srv.URL+"/general.ini", HTTPWaitDurations(0, 0)).Load()
		require.NoError(t, err)
		require.Equal(t, 2, attempts)
		require.False(t, l.Empty())
	})

	t.Run("will fail with SourceUnavailableError on a persistent error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewHTTP(srv.URL+"/general.ini", HTTPMaxAttempts(0)).Load()

		var serr SourceUnavailableError
		require.ErrorAs(t, err, &serr)
	})

	t.Run("will default to ini for an extensionless url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[a]\nx = 1\n"))
		}))
		defer srv.Close()

		l, err := NewHTTP(srv.URL).Load()
		require.NoError(t, err)
		require.False(t, l.Empty())
	})

	t.Run("will open the circuit after consecutive failures", func(t *testing.T) {
		requests := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		src := NewHTTP(srv.URL+"/general.ini", HTTPMaxAttempts(0), HTTPCircuitTripCount(2))

		for i := 0; i < 2; i++ {
			_, err := src.Load()
			require.Error(t, err)
		}
		requestsBeforeTrip := requests

		_, err := src.Load()
		require.Error(t, err)
		require.Equal(t, requestsBeforeTrip, requests)
	})
}
