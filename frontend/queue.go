package frontend

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var errUnknownMetric = errors.New("unknown metric")

func paramInt(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}

type analyzeRequest struct {
	Report  string `json:"report"`
	FightID int    `json:"fight_id"`
	Metric  string `json:"metric"`
}

func (r *analyzeRequest) valid() bool {
	switch {
	case !reReportCode.MatchString(r.Report):
	case r.FightID <= 0:
	case r.Metric != "dps" && r.Metric != "hps" && r.Metric != "deaths":
	default:
		return true
	}
	return false
}

type job struct {
	lock sync.Mutex

	id   uuid.UUID
	conn *websocket.Conn

	req analyzeRequest
	ctx context.Context

	done chan struct{}
	skip bool
}

func (s *Server) enqueue(j *job) {
	s.queueLock.Lock()
	j.reorder(len(s.queue))
	s.queue = append(s.queue, j)
	s.queueLock.Unlock()

	select {
	case s.queueWake <- struct{}{}:
	default:
	}
}

func (s *Server) queueWorker() {
	for {
		var j *job

		s.queueLock.Lock()
		if len(s.queue) > 0 {
			j = s.queue[0]
			s.queue = s.queue[1:]
			for i, waiting := range s.queue {
				go waiting.reorder(i)
			}
		}
		s.queueLock.Unlock()

		if j == nil {
			<-s.queueWake
			continue
		}

		j.lock.Lock()
		skip := j.skip
		j.lock.Unlock()
		if skip {
			close(j.done)
			continue
		}

		log.Printf("frontend: start %s: %s fight %d (%s)", j.id, j.req.Report, j.req.FightID, j.req.Metric)
		j.start()

		content, err := s.renderJob(j)
		if err != nil {
			log.Printf("frontend: %s failed: %+v", j.id, err)
			j.fail()
		} else {
			j.complete(content)
		}
		close(j.done)
	}
}

func (s *Server) renderJob(j *job) (string, error) {
	b, err := s.builder(j.ctx, j.req.Report)
	if err != nil {
		return "", err
	}
	return s.render(j.ctx, b, j.req.FightID, j.req.Metric)
}

////////////////////////////////////////////////////////////////////////////////////////////////////

func (j *job) writeEvent(event string, data interface{}) {
	j.lock.Lock()
	defer j.lock.Unlock()

	resp := struct {
		Event string      `json:"event"`
		Data  interface{} `json:"data,omitempty"`
	}{
		Event: event,
		Data:  data,
	}

	err := j.conn.WriteJSON(&resp)
	if err != nil {
		log.Println(err)
	}
}

func (j *job) reorder(order int) { j.writeEvent("waiting", order) }

func (j *job) start() { j.writeEvent("start", nil) }

func (j *job) fail() { j.writeEvent("error", nil) }

func (j *job) complete(content string) { j.writeEvent("complete", content) }
