package rabbitmq

import (
	"encoding/json"
	"log"

	"github.com/rkaranam/concierge/models"
	"github.com/rkaranam/concierge/redisclient"
	"github.com/rkaranam/concierge/wsfeed"
)

// ConsumeTurns reads turn events off the transcript exchange, archives each
// to redis and broadcasts it to live feed watchers. Blocks; run it on its
// own goroutine.
func ConsumeTurns(hub *wsfeed.Hub) {
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Could not open consumer channel: %v", err)
	}

	if err := declareExchange(ch); err != nil {
		log.Fatalf("Could not declare transcript exchange: %v", err)
	}
	q, err := ch.QueueDeclare("", false, false, true, false, nil)
	if err != nil {
		log.Fatalf("Could not declare consumer queue: %v", err)
	}
	if err := ch.QueueBind(q.Name, "", turnExchange, false, nil); err != nil {
		log.Fatalf("Could not bind consumer queue: %v", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("Could not start consuming turn events: %v", err)
	}

	log.Println("[INFO] transcript consumer waiting for turn events")
	for d := range msgs {
		var ev models.TurnEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("[WARN] discarding malformed turn event: %v", err)
			continue
		}

		if err := redisclient.AppendTurn(ev); err != nil {
			log.Printf("[ERROR] turn for call %s not archived: %v", ev.CallID, err)
		}
		if hub != nil {
			hub.Broadcast(ev)
		}
	}
}
