package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holidayServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["2025-01-01","2024-12-25"]`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalcCommand(t *testing.T) {
	ts := holidayServer(t)

	out, err := run(t, "calc", "--holidays-url", ts.URL, "--days", "1", "--date", "2024-12-25T10:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-26T13:00:00.000Z\n", out)
}

func TestCalcCommandJSON(t *testing.T) {
	ts := holidayServer(t)

	out, err := run(t, "calc", "--holidays-url", ts.URL, "--json", "--hours", "3", "--date", "2025-04-15T20:00:00Z")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "2025-04-16T15:00:00Z", resp["date"])
}

func TestCalcCommandRejectsInvalidInput(t *testing.T) {
	ts := holidayServer(t)

	_, err := run(t, "calc", "--holidays-url", ts.URL, "--date", "2025-04-15T20:00:00Z")
	require.Error(t, err)

	_, err = run(t, "calc", "--holidays-url", ts.URL, "--days", "-2")
	require.Error(t, err)
}

func TestCalcCommandExternalFailure(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := run(t, "calc", "--holidays-url", ts.URL, "--days", "1", "--date", "2025-04-15T20:00:00Z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ExternalApiError")
}

func TestHolidaysCommand(t *testing.T) {
	ts := holidayServer(t)

	out, err := run(t, "holidays", "--holidays-url", ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-25\n2025-01-01\n", out)

	out, err = run(t, "holidays", "--holidays-url", ts.URL, "--json")
	require.NoError(t, err)
	var resp struct {
		Holidays []string `json:"holidays"`
		Count    int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestTZCommand(t *testing.T) {
	ts := holidayServer(t)

	out, err := run(t, "tz", "--holidays-url", ts.URL, "2025-04-12T19:00:00Z")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "zone:       America/Bogota"), out)
	assert.Contains(t, out, "local:      2025-04-12 14:00:00 -05")
	assert.Contains(t, out, "position:   weekend")
	assert.Contains(t, out, "normalized: 2025-04-11T22:00:00.000Z")
}

func TestTZCommandRejectsBadInstant(t *testing.T) {
	ts := holidayServer(t)

	_, err := run(t, "tz", "--holidays-url", ts.URL, "2025-04-12 19:00")
	require.Error(t, err)
}
