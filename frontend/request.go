package frontend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var (
	websocketUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	websockEmptyClosure = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
)

// routeAnalyze serves one report request over a websocket: the client sends
// the request JSON, receives queue-position and start events, then the
// rendered text (or an error event).
func (s *Server) routeAnalyze(c *gin.Context) {
	ctx, ctxCancel := context.WithCancel(c.Request.Context())
	defer ctxCancel()

	ws, err := websocketUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		fmt.Printf("%+v\n", errors.WithStack(err))
		return
	}
	defer ws.Close()

	j := &job{
		id:   uuid.New(),
		conn: ws,
		ctx:  ctx,
		done: make(chan struct{}),
	}

	ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	err = ws.ReadJSON(&j.req)
	if err != nil {
		fmt.Printf("%+v\n", errors.WithStack(err))
		return
	}
	ws.SetReadDeadline(time.Time{})

	if !j.req.valid() {
		j.fail()
		return
	}

	////////////////////////////////////////////////////////////////////////////////////////////////////

	go func() {
		for {
			_, _, err := ws.ReadMessage()
			if err != nil {
				ctxCancel()
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.lock.Lock()
				err := ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second))
				j.lock.Unlock()
				if err != nil {
					ctxCancel()
					return
				}
			case <-j.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	s.enqueue(j)

	select {
	case <-j.done:
		j.lock.Lock()
		err = ws.WriteMessage(websocket.CloseMessage, websockEmptyClosure)
		j.lock.Unlock()
		if err != nil {
			fmt.Printf("%+v\n", errors.WithStack(err))
		}

	case <-ctx.Done():
		j.lock.Lock()
		j.skip = true
		j.lock.Unlock()
	}
}
