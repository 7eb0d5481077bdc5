// Package telephony builds provider voice XML and drives the provider's
// call REST API.
package telephony

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// GatherSpeech renders the voice XML that speaks text and then gathers the
// caller's next speech turn, posting the result back to action.
func GatherSpeech(text, action string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Response>
<Gather input="speech" action="%s" method="POST" speechTimeout="auto" language="en-US">
<Say>%s</Say>
</Gather>
</Response>`, escapeXML(action), escapeXML(text))
}

// Hangup renders the voice XML that ends the call after speaking text.
func Hangup(text string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Response>
<Say>%s</Say>
<Hangup/>
</Response>`, escapeXML(text))
}

func escapeXML(s string) string {
	var b strings.Builder
	// EscapeText only fails on a failing writer; strings.Builder never does.
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
