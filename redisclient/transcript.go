package redisclient

import (
	"encoding/json"
	"fmt"

	"github.com/rkaranam/concierge/models"
)

func transcriptKey(callID string) string {
	return "transcript:" + callID
}

// AppendTurn archives one completed call turn at the end of the call's list.
func AppendTurn(ev models.TurnEvent) error {
	return Get().RPush(transcriptKey(ev.CallID), &ev).Err()
}

// GetTranscript returns the archived transcript for a call in turn order.
func GetTranscript(callID string) ([]models.TurnEvent, error) {
	raw, err := Get().LRange(transcriptKey(callID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read transcript for %s: %w", callID, err)
	}

	turns := make([]models.TurnEvent, 0, len(raw))
	for _, v := range raw {
		var ev models.TurnEvent
		if err := json.Unmarshal([]byte(v), &ev); err != nil {
			return nil, fmt.Errorf("decode transcript entry for %s: %w", callID, err)
		}
		turns = append(turns, ev)
	}
	return turns, nil
}
