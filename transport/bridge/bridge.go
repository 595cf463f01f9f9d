// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package bridge exposes a transport.Worker's message boundary over a
// local WebSocket, for hosts that run out-of-process (a browser-based
// front end, or an integration-test harness driving a detached worker).
// The core engine never imports this package; it is an optional adapter
// that marshals the same flat hot-path arrays and structured records
// spec.md §4.5/§6 define to and from JSON frames.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"github.com/galvanized/loco/geometry"
	"github.com/galvanized/loco/math/lin"
	"github.com/galvanized/loco/transport"
)

var logger = slog.Default()

var upgrader = websocket.Upgrader{}

const (
	writeWait  = time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// envelope is the JSON wire frame. Hot-path messages travel as their flat
// float array verbatim; structured messages carry kind plus a raw payload
// decoded against the shape that kind implies.
type envelope struct {
	Kind    transport.Kind  `json:"kind"`
	Hot     []float64       `json:"hot,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Server accepts a single WebSocket connection at a time and pumps it
// against a worker's hot-path and structured channels, matching
// niceyeti-tabular/server's "one page, one client, one socket" scope: this
// is a debugging/integration bridge, not a multi-tenant production gateway.
type Server struct {
	addr   string
	worker *transport.Worker
	http   *http.Server
}

// NewServer returns a bridge listening on addr for a single client
// connection and forwarding it to worker.
func NewServer(addr string, worker *transport.Worker) *Server {
	s := &Server{addr: addr, worker: worker}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWebsocket)
	s.http = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Serve blocks, listening until ctx is cancelled, at which point the
// underlying HTTP server is shut down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.http.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		logger.Error("bridge: websocket upgrade failed", "err", err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pong := make(chan struct{})
	ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		case <-ctx.Done():
		}
		return nil
	})

	go s.readPump(ctx, cancel, ws)
	s.writePump(ctx, ws, pong)
}

// readPump blocks on ws.ReadMessage, decoding each inbound frame and
// forwarding it to the worker's hot-path or structured queue. All read
// errors are permanent, per the gorilla/websocket contract, and cancel the
// connection's context.
func (s *Server) readPump(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn) {
	defer cancel()
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("bridge: read failed", "err", err)
			}
			return
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Warn("bridge: malformed frame, dropping", "err", err)
			continue
		}
		s.dispatch(env)
	}
}

func (s *Server) dispatch(env envelope) {
	if len(env.Hot) > 0 {
		s.worker.PostHot(env.Hot)
		return
	}
	msg, ok := decodeStructured(env)
	if !ok {
		logger.Warn("bridge: unrecognized structured frame", "kind", env.Kind)
		return
	}
	s.worker.PostStructured(msg)
}

func decodeStructured(env envelope) (transport.Message, bool) {
	switch env.Kind {
	case transport.KindInit:
		var p transport.InitPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return transport.Message{}, false
		}
		return transport.Message{Kind: env.Kind, Payload: p}, true
	case transport.KindConfig:
		var p transport.ConfigPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return transport.Message{}, false
		}
		return transport.Message{Kind: env.Kind, Payload: p}, true
	case transport.KindAddEnvironment:
		var wire addEnvironmentWire
		if err := json.Unmarshal(env.Payload, &wire); err != nil {
			return transport.Message{}, false
		}
		return transport.Message{Kind: env.Kind, Payload: wire.payload()}, true
	case transport.KindRemoveEnvironment:
		var p transport.RemoveEnvironmentPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return transport.Message{}, false
		}
		return transport.Message{Kind: env.Kind, Payload: p}, true
	default:
		return transport.Message{}, false
	}
}

// addEnvironmentWire mirrors AddEnvironmentPayload but with a JSON-friendly
// flat vertex/matrix layout (spec.md §6: "flatten mesh geometry into the
// expected vertex/index layout", "matrices are 16-element column-major
// affine"), since lin.V3/lin.M4 have no JSON tags of their own.
type addEnvironmentWire struct {
	Handle    int       `json:"handle"`
	Positions []float64 `json:"positions"`
	Indices   []int     `json:"indices,omitempty"`
	EnvKind   int       `json:"kind"`
	Matrix    [16]float64 `json:"matrix"`
}

func (w addEnvironmentWire) payload() transport.AddEnvironmentPayload {
	verts := make([]lin.V3, 0, len(w.Positions)/3)
	for i := 0; i+2 < len(w.Positions); i += 3 {
		verts = append(verts, lin.V3{X: w.Positions[i], Y: w.Positions[i+1], Z: w.Positions[i+2]})
	}
	return transport.AddEnvironmentPayload{
		Handle:   w.Handle,
		Vertices: verts,
		Indices:  w.Indices,
		EnvKind:  geometry.Kind(w.EnvKind),
		Matrix:   matrixFromWire(w.Matrix),
	}
}

func matrixFromWire(a [16]float64) lin.M4 {
	return lin.M4{
		Xx: a[0], Xy: a[1], Xz: a[2], Xw: a[3],
		Yx: a[4], Yy: a[5], Yz: a[6], Yw: a[7],
		Zx: a[8], Zy: a[9], Zz: a[10], Zw: a[11],
		Wx: a[12], Wy: a[13], Wz: a[14], Ww: a[15],
	}
}

// writePump forwards the worker's outbound updates and a liveness ping to
// the client, returning when ctx is cancelled by a failed read or server
// shutdown.
func (s *Server) writePump(ctx context.Context, ws *websocket.Conn, pong <-chan struct{}) {
	ticker := channerics.NewTicker(ctx.Done(), pingPeriod)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.worker.Updates():
			if !ok {
				return
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Warn("bridge: set write deadline failed", "err", err)
				return
			}
			if err := ws.WriteJSON(envelope{Kind: transport.Kind(msg[0]), Hot: msg}); err != nil {
				logger.Warn("bridge: write failed", "err", err)
				return
			}
		case <-pong:
			lastPong = time.Now()
		case <-ticker:
			if time.Since(lastPong) > pongWait {
				logger.Warn("bridge: pong deadline exceeded, closing")
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Warn("bridge: ping failed", "err", err)
				return
			}
		}
	}
}
