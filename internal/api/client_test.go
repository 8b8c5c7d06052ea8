package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mujeralerta/diagnostico/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func testClient(baseURL string, obs Observer) *Client {
	return NewClient(Config{BaseURL: baseURL + "/", Token: "tok", Timeout: 2 * time.Second, MaxRetries: 1}, obs)
}

func TestClient_CreateEncuesta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/encuestas", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["centro_id"])
		assert.Equal(t, float64(2), body["genero_id"])
		assert.Equal(t, float64(30), body["edad"])
		assert.NotContains(t, body, "email")

		json.NewEncoder(w).Encode(map[string]string{"encuesta_id": "S1"})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	id, err := testClient(srv.URL, obs).CreateEncuesta(context.Background(), domain.NewEncuesta{CentroID: 7, GeneroID: 2, Edad: 30})
	require.NoError(t, err)
	assert.Equal(t, "S1", id)

	ev := obs.last()
	assert.True(t, ev.Success)
	assert.Equal(t, http.StatusOK, ev.Status)
	assert.Equal(t, 1, ev.Attempts)
}

func TestClient_CreateEncuesta_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).CreateEncuesta(context.Background(), domain.NewEncuesta{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_SubmitRespuestas_OmitsNilComment(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true,"inserted":1}`))
	}))
	defer srv.Close()

	n, err := testClient(srv.URL, nil).SubmitRespuestas(context.Background(), domain.RespuestasSubmission{
		EncuestaID: "S1",
		Respuestas: []domain.Respuesta{{PreguntaID: "P1", Dimension: domain.DimensionFrecuencia, Valor: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotContains(t, got, "comentario")
	assert.Len(t, got["respuestas"], 1)
}

func TestClient_StatusErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "need_48_answers", http.StatusBadRequest)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	_, err := testClient(srv.URL, obs).SubmitRespuestas(context.Background(), domain.RespuestasSubmission{EncuestaID: "S1"})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "need_48_answers", err.Error())
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, "HTTP_400", obs.last().ErrorCode)
}

func TestStatusError_EmptyBody(t *testing.T) {
	assert.Equal(t, "HTTP 502", (&StatusError{Code: 502}).Error())
}

func TestClient_PostIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).SubmitRespuestas(context.Background(), domain.RespuestasSubmission{EncuestaID: "S1"})
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_GetRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"id":7,"tipo":"escuela","nombre":"Secundaria 1","clave":"SEC1","ciudad":"Mérida"}]`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	centros, err := testClient(srv.URL, obs).ListCentros(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, centros, 1)
	assert.Equal(t, "SEC1 — Secundaria 1 (Mérida)", centros[0].Label())
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, obs.last().Attempts)
}

func TestClient_GetDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).ListGeneros(context.Background())
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	generos, err := testClient(srv.URL, nil).ListGeneros(context.Background())
	require.NoError(t, err)
	assert.Empty(t, generos)
}

func TestClient_GetInstrument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/instrumento", r.URL.Path)
		w.Write([]byte(`{"data":{"name":"x","types_of_violence":[]}}`))
	}))
	defer srv.Close()

	raw, err := testClient(srv.URL, nil).GetInstrument(context.Background())
	require.NoError(t, err)
	assert.Contains(t, raw, "data")
}

func TestClient_GetInstrument_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).GetInstrument(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetResumen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/encuestas/S1/resumen", r.URL.Path)
		w.Write([]byte(`{"encuesta_id":"S1","global":{"frecuencia":2.5,"normalidad":1,"gravedad":3,"total":2.17},
			"matriz":[{"tipo_num":1,"tipo_nombre":"Psicológica","dimension":"frecuencia","promedio":2.5}]}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL, nil).GetResumen(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 2.5, res.Global.Frecuencia)
	require.Len(t, res.Matriz, 1)
	assert.Equal(t, "Psicológica", res.Matriz[0].TipoNombre)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, obs)
	_, err := client.ListGeneros(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "TIMEOUT", obs.last().ErrorCode)
}

func TestClient_Unavailable(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil)
	_, err := client.ListGeneros(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
