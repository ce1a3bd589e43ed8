package transcription

import (
	"net/http"
	"sync"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"github.com/gorilla/websocket"
)

// WsConn is interface for websocket handling in the service
type WsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	WriteJSON(v interface{}) error
}

// subscribers keeps open websocket connections waiting for queue changes
type subscribers struct {
	conns map[WsConn]bool
	lock  sync.Mutex
}

func newSubscribers() *subscribers {
	return &subscribers{conns: make(map[WsConn]bool)}
}

func (ss *subscribers) add(conn WsConn) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.conns[conn] = true
	cmdapp.Log.Infof("Added ws connection: %d", len(ss.conns))
}

func (ss *subscribers) delete(conn WsConn) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	delete(ss.conns, conn)
	cmdapp.Log.Infof("Deleted ws connection: %d", len(ss.conns))
}

// broadcast pushes data to all subscribers, drops connections that fail
func (ss *subscribers) broadcast(data interface{}) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	for conn := range ss.conns {
		err := conn.WriteJSON(data)
		if err != nil {
			cmdapp.Log.Error(err)
			conn.Close()
			delete(ss.conns, conn)
		}
	}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

type websocketHandler struct {
	data *ServiceData
}

func (h websocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("ws request from %s", r.Host)

	c, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Can not init ws connection", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	go handleConnection(c, h.data.Subscribers)
}

func handleConnection(conn WsConn, ss *subscribers) {
	ss.add(conn)
	defer ss.delete(conn)
	defer conn.Close()
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			cmdapp.Log.Infof("ws connection closed")
			break
		}
	}
}
