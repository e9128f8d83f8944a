package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"luminisbot/frontend"
	"luminisbot/notify"
	"luminisbot/report"
	"luminisbot/scraper"
	_ "luminisbot/share"
	"luminisbot/store"
	"luminisbot/wcl"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env")

	pal, err := report.LoadPalette(os.Getenv("PALETTE_FILE"))
	if err != nil {
		log.Printf("palette: %+v, using defaults", err)
		pal = report.DefaultPalette()
	}

	wclClient := wcl.New(
		os.Getenv("WCL_CLIENT_ID"),
		os.Getenv("WCL_CLIENT_SECRET"),
	)
	client := report.NewClient(wclClient, scraper.New())

	var st *store.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		st, err = store.Open(dsn)
		if err != nil {
			log.Fatalf("store: %+v", err)
		}
		defer st.Close()

		err = st.Setup(context.Background())
		if err != nil {
			log.Fatalf("store: %+v", err)
		}
	}

	if hook := os.Getenv("DISCORD_WEBHOOK_URL"); hook != "" && st != nil {
		guildID, err := strconv.Atoi(os.Getenv("WCL_GUILD_ID"))
		if err != nil {
			log.Fatalf("invalid WCL_GUILD_ID: %v", err)
		}

		w := &notify.Watcher{
			Client:     wclClient,
			Store:      st,
			WebhookURL: hook,
			GuildID:    guildID,
			Interval:   10 * time.Minute,
		}
		go w.Run(context.Background())
	}

	g := gin.New()
	frontend.New(client, pal, st).Route(g)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "127.0.0.1:5555"
	}
	g.Run(addr)
}
