package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	"github.com/rkaranam/concierge/agent"
	"github.com/rkaranam/concierge/backend"
	"github.com/rkaranam/concierge/notify"
	"github.com/rkaranam/concierge/rabbitmq"
	"github.com/rkaranam/concierge/redisclient"
	"github.com/rkaranam/concierge/session"
	"github.com/rkaranam/concierge/telephony"
	"github.com/rkaranam/concierge/wsfeed"
)

// Models and schedule
const (
	ConversationalModel = "gpt-4-turbo-preview"
	AnalyticalModel     = "gemini-pro"
	CycleSchedule       = "@every 1h"
	DefaultProviderURL  = "https://api.callbridge.dev/v1/Account"
	ServerPort          = ":8080"
)

// Every credential the service needs. Any gap is fatal at startup.
var requiredVars = []string{
	"OPENAI_API_KEY",
	"GOOGLE_API_KEY",
	"PUSHOVER_USER_KEY",
	"PUSHOVER_API_TOKEN",
	"TELEPHONY_AUTH_ID",
	"TELEPHONY_AUTH_TOKEN",
	"TELEPHONY_PHONE_NUMBER",
	"SESSION_SECRET",
}

var (
	// Standard Gorilla WebSocket upgrader
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	assistant   *agent.Agent
	callStore   *session.Store
	phoneClient *telephony.Client
	feedHub     *wsfeed.Hub
	phoneNumber string
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] no .env file found, using process environment")
	}
	checkEnv()

	redisclient.Init()
	rabbitmq.Init()

	conversational := backend.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), ConversationalModel)
	analytical, err := backend.NewGeminiClient(context.Background(), os.Getenv("GOOGLE_API_KEY"), AnalyticalModel)
	if err != nil {
		log.Fatalf("Could not initialize Gemini client: %v", err)
	}
	sink := notify.NewPushover(os.Getenv("PUSHOVER_API_TOKEN"), os.Getenv("PUSHOVER_USER_KEY"))

	assistant = agent.New(conversational, analytical, sink)
	callStore = session.NewStore(conversational, rabbitmq.PublishTurn)
	phoneClient = telephony.NewClient(
		os.Getenv("TELEPHONY_AUTH_ID"),
		os.Getenv("TELEPHONY_AUTH_TOKEN"),
		envOrDefault("TELEPHONY_API_URL", DefaultProviderURL),
	)
	phoneNumber = os.Getenv("TELEPHONY_PHONE_NUMBER")

	feedHub = wsfeed.NewHub()
	go rabbitmq.ConsumeTurns(feedHub)

	cr := cron.New()
	if _, err := cr.AddFunc(CycleSchedule, assistant.RunCycle); err != nil {
		log.Fatalf("Could not schedule agent cycle: %v", err)
	}
	cr.Start()
	go assistant.RunCycle() // run immediately on startup

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Telephony webhooks and outbound calling
	e.POST("/handle-call", HandleCall)
	e.POST("/end-call", HandleEndCall)
	e.POST("/call", HandleInitiateCall)
	e.POST("/hangup", HandleHangup)
	e.GET("/calls/:callID/transcript", HandleCallTranscript)

	// Tasks
	e.POST("/tasks", HandleCreateTask)
	e.GET("/tasks", HandleListTasks)
	e.PUT("/tasks/:id", HandleUpdateTask)
	e.DELETE("/tasks/:id", HandleDeleteTask)

	// Transcripts
	e.GET("/transcripts/live", HandleTranscriptFeed)
	e.GET("/transcripts/:callID", HandleGetTranscript)

	e.Logger.Fatal(e.Start(envOrDefault("PORT", ServerPort)))
}

func checkEnv() {
	var missing []string
	for _, v := range requiredVars {
		if os.Getenv(v) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		log.Fatalf("Missing required environment variables: %v", missing)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
