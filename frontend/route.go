package frontend

import (
	"context"
	"net/http"
	"regexp"
	"sync"

	"luminisbot/report"
	"luminisbot/store"
	"luminisbot/wcl"

	"github.com/gin-gonic/gin"
)

var reReportCode = regexp.MustCompile(`^[A-Za-z0-9]{8,32}$`)

// Server exposes the report builder over HTTP and websocket. Loaded
// builders are cached per report code so repeated fight selections reuse
// the fight list and the boss-health map.
type Server struct {
	client report.Client
	pal    *report.Palette
	store  *store.Store

	buildersLock sync.Mutex
	builders     map[string]*report.Builder

	queueLock sync.Mutex
	queue     []*job
	queueWake chan struct{}
}

func New(client report.Client, pal *report.Palette, st *store.Store) *Server {
	s := &Server{
		client:    client,
		pal:       pal,
		store:     st,
		builders:  make(map[string]*report.Builder, 16),
		queueWake: make(chan struct{}, 1),
	}
	go s.queueWorker()
	return s
}

func (s *Server) Route(g *gin.Engine) {
	g.Use(gin.ErrorLogger())
	g.Use(gin.Recovery())

	g.GET("/api/reports/:code/fights", s.routeFights)
	g.GET("/api/reports/:code/fights/:id/:metric", s.routeFight)
	g.GET("/api/analyze", s.routeAnalyze)
	g.POST("/api/channels", s.routeSetChannel)
}

func (s *Server) builder(ctx context.Context, code string) (*report.Builder, error) {
	s.buildersLock.Lock()
	b, ok := s.builders[code]
	s.buildersLock.Unlock()
	if ok {
		return b, nil
	}

	b = report.NewBuilder(s.client, code, s.pal)
	err := b.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.buildersLock.Lock()
	if len(s.builders) >= 64 {
		s.builders = make(map[string]*report.Builder, 16)
	}
	s.builders[code] = b
	s.buildersLock.Unlock()

	return b, nil
}

func (s *Server) routeFights(c *gin.Context) {
	code := c.Param("code")
	if !reReportCode.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report code"})
		return
	}

	b, err := s.builder(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load report"})
		return
	}
	if len(b.Fights()) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no boss encounters found in this log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fights": b.FightOptions()})
}

func (s *Server) routeFight(c *gin.Context) {
	code := c.Param("code")
	if !reReportCode.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report code"})
		return
	}

	var params struct {
		FightID int    `uri:"id"`
		Metric  string `uri:"metric"`
	}
	params.Metric = c.Param("metric")
	if id, err := paramInt(c, "id"); err == nil {
		params.FightID = id
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fight id"})
		return
	}

	b, err := s.builder(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load report"})
		return
	}

	content, err := s.render(c.Request.Context(), b, params.FightID, params.Metric)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (s *Server) render(ctx context.Context, b *report.Builder, fightID int, metric string) (string, error) {
	switch metric {
	case "dps":
		return b.Performance(ctx, fightID, wcl.MetricDPS)
	case "hps":
		return b.Performance(ctx, fightID, wcl.MetricHPS)
	case "deaths":
		return b.Deaths(ctx, fightID)
	}
	return "", errUnknownMetric
}

func (s *Server) routeSetChannel(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return
	}

	var req struct {
		GuildID   int64 `json:"guild_id" binding:"required"`
		ChannelID int64 `json:"channel_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := s.store.SetChannel(c.Request.Context(), req.GuildID, req.ChannelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save channel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
