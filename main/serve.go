package main

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sphlab/gosph/io"
	"github.com/sphlab/gosph/sph"
)

const serveFrameRate = 30

var upgrader = websocket.Upgrader{
	// The server only ever runs on a trusted machine for visualization,
	// so cross-origin page scripts are allowed to connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// frame is one broadcast snapshot of the simulation. Positions are packed
// xyz triples.
type frame struct {
	Type      string    `json:"type"`
	Time      float32   `json:"time"`
	Count     int       `json:"count"`
	Positions []float32 `json:"positions"`
}

type server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func (srv *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %s.", err.Error())
		return
	}

	srv.mu.Lock()
	srv.clients[conn] = true
	n := len(srv.clients)
	srv.mu.Unlock()
	log.Printf("Client %s connected (%d total).", conn.RemoteAddr(), n)

	// Drain the read side so close frames and pings are processed. The
	// broadcast loop owns all writes.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				srv.drop(conn)
				return
			}
		}
	}()
}

func (srv *server) drop(conn *websocket.Conn) {
	srv.mu.Lock()
	if srv.clients[conn] {
		delete(srv.clients, conn)
		conn.Close()
		log.Printf(
			"Client %s disconnected (%d total).",
			conn.RemoteAddr(), len(srv.clients),
		)
	}
	srv.mu.Unlock()
}

func (srv *server) broadcast(f *frame) {
	srv.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(srv.clients))
	for conn := range srv.clients {
		conns = append(conns, conn)
	}
	srv.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteJSON(f); err != nil {
			srv.drop(conn)
		}
	}
}

// serveMain steps the simulation in real time and broadcasts a frame per
// display tick to every connected websocket client.
func serveMain(con *io.SceneConfig, addr string) {
	solver := newSolver(con)
	driver := newGravityDriver(con)
	srv := &server{clients: map[*websocket.Conn]bool{}}

	go srv.simulate(solver, driver)

	http.HandleFunc("/ws", srv.handleWS)
	log.Printf("Listening on %s.", addr)
	err := http.ListenAndServe(addr, nil)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func (srv *server) simulate(solver *sph.Solver, driver *gravityDriver) {
	dt := solver.MaxTimestep()
	tick := time.NewTicker(time.Second / serveFrameRate)
	defer tick.Stop()

	for range tick.C {
		// Advance the simulation by one display tick of simulated time,
		// or as many solver steps as fit in it.
		target := solver.Time() + 1.0/serveFrameRate
		for solver.Time() < target {
			solver.Settings().Gravity = driver.Gravity(solver.Time())
			solver.Update(dt)
		}

		m := solver.Positions()
		srv.broadcast(&frame{
			Type:      "frame",
			Time:      solver.Time(),
			Count:     solver.Count(),
			Positions: m.Vals,
		})
	}
}
