package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonEnvelope(status int, body string) *Envelope {
	return &Envelope{
		Status:         status,
		Headers:        Headers{{Name: "content-type", Value: "application/json"}},
		RequestHeaders: Headers{{Name: "accept", Value: "*/*"}},
		Body:           []byte(body),
		ContentType:    "application/json",
		URL:            "http://example.com/",
	}
}

func TestNormalize_DecodesByContentType(t *testing.T) {
	out, err := Normalize(jsonEnvelope(200, `{"field":"value"}`), Flags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"field": "value"}, out)
}

func TestNormalize_RawSkipsDecoding(t *testing.T) {
	out, err := Normalize(jsonEnvelope(200, `{"field":"value"}`), Flags{Raw: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"field":"value"}`, out)
}

func TestNormalize_MalformedBodyFallsBackToRaw(t *testing.T) {
	env := jsonEnvelope(200, `{"field":`)
	out, err := Normalize(env, Flags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"field":`, out)

	decoded := DecodeBody(env, nil)
	assert.Equal(t, DecodedFallback, decoded.Kind)
	assert.Error(t, decoded.Err)
}

func TestNormalize_UnknownContentTypeIsRaw(t *testing.T) {
	env := &Envelope{Status: 200, Body: []byte("<html></html>"), ContentType: "text/html"}
	assert.Equal(t, DecodedRaw, DecodeBody(env, nil).Kind)

	out, err := Normalize(env, Flags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", out)
}

func TestNormalize_ExtensionWhenContentTypeMissing(t *testing.T) {
	target, err := ResolveURL("http://example.com/config.yaml", "")
	require.NoError(t, err)
	env := &Envelope{Status: 200, Body: []byte("port: 8080\n"), Target: target}

	out, err := Normalize(env, Flags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"port": 8080}, out)
}

func TestNormalize_BinaryRawBody(t *testing.T) {
	env := &Envelope{Status: 200, Body: []byte{0xff, 0xfe, 0x00}, ContentType: "application/octet-stream"}
	out, err := Normalize(env, Flags{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 0x00}, out)
}

func TestNormalize_StatusClassification(t *testing.T) {
	for status := 400; status <= 599; status += 37 {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			env := jsonEnvelope(status, `{"error":"nope"}`)

			_, err := Normalize(env, Flags{}, nil)
			var statusErr *HTTPStatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, status, statusErr.Status)
			assert.Equal(t, map[string]any{"error": "nope"}, statusErr.Body)

			out, err := Normalize(env, Flags{AllowErrors: true}, nil)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"error": "nope"}, out)
		})
	}
}

func TestNormalize_SuccessBelow400(t *testing.T) {
	for _, status := range []int{200, 201, 204, 301, 304, 399} {
		_, err := Normalize(jsonEnvelope(status, `{}`), Flags{}, nil)
		assert.NoError(t, err, "status %d", status)
	}
}

func TestNormalize_StatusErrorKeepsUndecodableBody(t *testing.T) {
	env := &Envelope{Status: 500, Body: []byte("boom"), ContentType: "text/plain"}
	_, err := Normalize(env, Flags{Raw: true}, nil)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "boom", statusErr.Body)
	assert.Contains(t, err.Error(), "Server error (500)")
}

func TestNormalize_Full(t *testing.T) {
	env := jsonEnvelope(201, `{"id":1}`)

	out, err := Normalize(env, Flags{Full: true}, nil)
	require.NoError(t, err)
	full, ok := out.(*FullResponse)
	require.True(t, ok)
	assert.Equal(t, 201, full.Status)
	assert.Equal(t, "application/json", full.Headers.Response["content-type"])
	assert.Equal(t, "*/*", full.Headers.Request["accept"])
	assert.Equal(t, map[string]any{"id": int64(1)}, full.Body)

	out, err = Normalize(env, Flags{Full: true, Raw: true}, nil)
	require.NoError(t, err)
	full = out.(*FullResponse)
	assert.Equal(t, 201, full.Status)
	assert.Equal(t, `{"id":1}`, full.Body)
}

func TestNormalize_FullWithAllowErrors(t *testing.T) {
	out, err := Normalize(jsonEnvelope(404, `{"error":"missing"}`), Flags{Full: true, AllowErrors: true}, nil)
	require.NoError(t, err)
	full := out.(*FullResponse)
	assert.Equal(t, 404, full.Status)
	assert.Equal(t, map[string]any{"error": "missing"}, full.Body)
}

func TestEnvelope_Helpers(t *testing.T) {
	env := jsonEnvelope(404, "")
	assert.Equal(t, "application/json", env.Header("Content-Type"))
	assert.False(t, env.IsSuccess())
	assert.True(t, env.IsClientError())
	assert.False(t, env.IsServerError())
}
