package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rkaranam/concierge/redisclient"
)

// HandleTranscriptFeed upgrades the connection and streams call turns to
// the watcher as they complete, until it disconnects. Past turns are served
// by HandleGetTranscript.
func HandleTranscriptFeed(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	log.Println("[INFO] transcript watcher connected")

	feedHub.Add(ws)
	defer feedHub.Remove(ws)

	// Watchers only read; the loop exists to notice the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			log.Printf("[INFO] transcript watcher disconnected: %v", err)
			return nil
		}
	}
}

// HandleGetTranscript returns the archived transcript for one call.
func HandleGetTranscript(c echo.Context) error {
	turns, err := redisclient.GetTranscript(c.Param("callID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read transcript")
	}
	return c.JSON(http.StatusOK, turns)
}
