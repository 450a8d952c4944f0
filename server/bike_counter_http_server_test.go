package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bike-counter/server/handlers"
)

func TestBikeCounterHttpServer_ServeAndShutdown(t *testing.T) {
	muxRouter := mux.NewRouter()
	handler := handlers.NewBikeStatsHandler(stubStatsProvider{}, zap.NewNop())
	router := NewRouter(handler, muxRouter, t.TempDir(), zap.NewNop())
	router.RegisterRoutes()
	srv := NewBikeCounterHttpServer(router, muxRouter, "127.0.0.1:0", time.Second, zap.NewNop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/ping"
	require.Eventually(t, func() bool {
		res, err := http.Get(url)
		if err != nil {
			return false
		}
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		return res.StatusCode == http.StatusOK && assert.ObjectsAreEqual(`{"status":"pong"}`+"\n", string(body))
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestBikeCounterHttpServer_RestartKeepsSingleRouteSet(t *testing.T) {
	muxRouter := mux.NewRouter()
	router := NewRouter(handlers.NewBikeStatsHandler(stubStatsProvider{}, zap.NewNop()), muxRouter, t.TempDir(), zap.NewNop())
	router.RegisterRoutes()
	srv := NewBikeCounterHttpServer(router, muxRouter, "127.0.0.1:0", time.Second, zap.NewNop())

	for i := 0; i < 2; i++ {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		url := "http://" + ln.Addr().String() + "/ping"
		require.Eventually(t, func() bool {
			res, err := http.Get(url)
			if err != nil {
				return false
			}
			res.Body.Close()
			return res.StatusCode == http.StatusOK
		}, 2*time.Second, 20*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
	}

	routes := 0
	require.NoError(t, muxRouter.Walk(func(route *mux.Route, r *mux.Router, ancestors []*mux.Route) error {
		if tpl, err := route.GetPathTemplate(); err == nil && tpl == "/ping" {
			routes++
		}
		return nil
	}))
	assert.Equal(t, 1, routes)
}

func TestBikeCounterHttpServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	muxRouter := mux.NewRouter()
	router := NewRouter(handlers.NewBikeStatsHandler(stubStatsProvider{}, zap.NewNop()), muxRouter, t.TempDir(), zap.NewNop())
	router.RegisterRoutes()
	srv := NewBikeCounterHttpServer(router, muxRouter, ln.Addr().String(), time.Second, zap.NewNop())

	err = srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
