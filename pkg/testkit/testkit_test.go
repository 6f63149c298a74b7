package testkit_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-studio/atelier/pkg/auth"
	"github.com/inkwell-studio/atelier/pkg/response"
	"github.com/inkwell-studio/atelier/pkg/testkit"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(auth.CookieName)
		if err != nil {
			response.Unauthorized(w, "No token provided")
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		response.Success(w, map[string]any{"token": c.Value, "method": r.Method, "body": body})
	})
}

func TestRunScenarios(t *testing.T) {
	testkit.Run(t, echoHandler(), []testkit.Scenario{
		{Name: "no cookie", URL: "/echo", ExpectedCode: http.StatusUnauthorized, ExpectedError: "No token provided"},
		{
			Name:         "cookie and body",
			Method:       "post",
			URL:          "/echo",
			Token:        "abc",
			Body:         map[string]int{"n": 1},
			ExpectedCode: http.StatusOK,
			ExpectedJSON: `{"status":200,"data":{"token":"abc","method":"POST","body":{"n":1}}}`,
		},
	})
}

func TestDoDecodesData(t *testing.T) {
	resp := testkit.Do(t, echoHandler(), testkit.Request{Method: http.MethodPut, URL: "/echo", Token: "t", Body: `{"a":"b"}`})
	require.Equal(t, http.StatusOK, resp.Code)

	var data struct {
		Method string            `json:"method"`
		Body   map[string]string `json:"body"`
	}
	resp.Data(t, &data)
	assert.Equal(t, http.MethodPut, data.Method)
	assert.Equal(t, "b", data.Body["a"])
}

func TestSQLiteIsolated(t *testing.T) {
	type note struct {
		ID   uint
		Text string
	}
	a := testkit.SQLite(t, &note{})
	b := testkit.SQLite(t, &note{})
	require.NoError(t, a.Create(&note{Text: "x"}).Error)

	var n int64
	require.NoError(t, b.Model(&note{}).Count(&n).Error)
	assert.Zero(t, n)
}
