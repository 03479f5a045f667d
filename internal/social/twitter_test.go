package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestTwitter(t *testing.T, h http.HandlerFunc) *TwitterClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewTwitterClient(noop.NewTracerProvider().Tracer("test"), "ck", "cs", "at", "as")
	c.baseURL = srv.URL
	return c
}

func TestTwitterPostStatus(t *testing.T) {
	var gotPath, gotStatus, gotReply, gotAuth string
	c := newTestTwitter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotPath = r.URL.Path
		gotStatus = r.PostForm.Get("status")
		gotReply = r.PostForm.Get("in_reply_to_status_id")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"id":123,"id_str":"123"}`))
	})

	id, err := c.PostStatus(context.Background(), "#BTC 1 USD", "99")
	require.NoError(t, err)
	assert.Equal(t, "123", id)
	assert.Equal(t, "/statuses/update.json", gotPath)
	assert.Equal(t, "#BTC 1 USD", gotStatus)
	assert.Equal(t, "99", gotReply)
	assert.Contains(t, gotAuth, "OAuth ")
	assert.Contains(t, gotAuth, `oauth_consumer_key="ck"`)
}

func TestTwitterPostStatusNon200(t *testing.T) {
	c := newTestTwitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"code":187,"message":"Status is a duplicate."}]}`))
	})

	_, err := c.PostStatus(context.Background(), "dup", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTwitterDeleteStatus(t *testing.T) {
	var gotPath string
	c := newTestTwitter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Path == "/statuses/destroy/404.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id_str":"7"}`))
	})

	require.NoError(t, c.DeleteStatus(context.Background(), "7"))
	assert.Equal(t, "/statuses/destroy/7.json", gotPath)
	assert.Error(t, c.DeleteStatus(context.Background(), "404"))
}
