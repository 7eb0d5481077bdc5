package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rkaranam/concierge/session"
	"github.com/rkaranam/concierge/telephony"
)

// OutboundCallRequest is the client JSON body for placing a call.
type OutboundCallRequest struct {
	ToNumber string `json:"to_number"`
}

// HangupRequest is the client JSON body for tearing down a live call.
type HangupRequest struct {
	CallID string `json:"call_id"`
}

// Spoken phrases that end the call. The provider tears the call down on the
// Hangup verb and then posts /end-call, which clears the session.
var farewellPhrases = []string{"goodbye", "good bye", "hang up", "end the call"}

const farewellReply = "Goodbye! Have a great day."

// HandleCall is the speech webhook for a live call. The first event of a
// call carries no SpeechResult at all; it opens the session and speaks the
// fixed greeting without touching a backend. Every later event carries one
// speech turn to answer, empty transcriptions included.
func HandleCall(c echo.Context) error {
	callID := c.FormValue("CallSid")
	if callID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing CallSid")
	}
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed form body")
	}
	speechValues, hasSpeech := params["SpeechResult"]

	action := fmt.Sprintf("%s://%s/handle-call", scheme(c), c.Request().Host)

	if !hasSpeech {
		log.Printf("[INFO] call started: %s", callID)
		callStore.Begin(callID)
		return voiceXML(c, telephony.GatherSpeech(session.Greeting, action))
	}

	var speech string
	if len(speechValues) > 0 {
		speech = speechValues[0]
	}

	if wantsHangup(speech) {
		log.Printf("[INFO] caller said farewell, ending call: %s", callID)
		callStore.Close(callID)
		return voiceXML(c, telephony.Hangup(farewellReply))
	}

	reply := callStore.Turn(c.Request().Context(), callID, speech)
	return voiceXML(c, telephony.GatherSpeech(reply, action))
}

// HandleHangup tears a live call down through the provider and drops its
// session.
func HandleHangup(c echo.Context) error {
	req := new(HangupRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if req.CallID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'call_id' in request body")
	}

	if err := phoneClient.EndCall(req.CallID); err != nil {
		log.Printf("[ERROR] hangup of call %s failed: %v", req.CallID, err)
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("hangup failed: %v", err))
	}
	callStore.Close(req.CallID)

	return c.JSON(http.StatusOK, map[string]string{"message": "Call ended"})
}

// HandleCallTranscript returns the in-memory transcript of an active call.
func HandleCallTranscript(c echo.Context) error {
	turns := callStore.Transcript(c.Param("callID"))
	if turns == nil {
		return echo.NewHTTPError(http.StatusNotFound, "No active call with that id")
	}
	return c.JSON(http.StatusOK, turns)
}

func wantsHangup(speech string) bool {
	lower := strings.ToLower(speech)
	for _, phrase := range farewellPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// HandleEndCall closes the call's session. Safe to receive more than once.
func HandleEndCall(c echo.Context) error {
	callID := c.FormValue("CallSid")
	if callID != "" {
		log.Printf("[INFO] call ended: %s", callID)
		callStore.Close(callID)
	}
	return c.NoContent(http.StatusOK)
}

// HandleInitiateCall places an outbound call to the given number, answered
// by our own speech webhook.
func HandleInitiateCall(c echo.Context) error {
	req := new(OutboundCallRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if req.ToNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'to_number' in request body")
	}

	answerURL := fmt.Sprintf("%s://%s/handle-call", scheme(c), c.Request().Host)
	providerResp, err := phoneClient.CreateCall(phoneNumber, req.ToNumber, answerURL)
	if err != nil {
		log.Printf("[ERROR] outbound call to %s failed: %v", req.ToNumber, err)
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("call initiation failed: %v", err))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Call initiated",
		"data":    providerResp,
	})
}

func voiceXML(c echo.Context, body string) error {
	return c.Blob(http.StatusOK, "application/xml", []byte(body))
}

func scheme(c echo.Context) string {
	s := c.Scheme()
	if s == "" {
		s = "http"
		if c.Request().TLS != nil {
			s = "https"
		}
	}
	return s
}
