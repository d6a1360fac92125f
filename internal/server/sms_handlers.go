package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// twiml is the minimal TwiML response Twilio expects from a messaging webhook.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// handleIncomingSMS receives a Twilio-form webhook (From, Body) and answers
// with TwiML containing the reply text.
func (s *Server) handleIncomingSMS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	body := strings.TrimSpace(r.PostFormValue("Body"))
	if from == "" {
		respondError(w, http.StatusBadRequest, "missing From")
		return
	}

	reply, err := s.handler.HandleMessage(r.Context(), from, body, time.Now())
	if err != nil {
		// The pipeline already chose a safe reply; log and send it anyway.
		fmt.Printf("SMS turn finished with error for %s: %v\n", from, err)
	}

	respondTwiML(w, reply)
}

func respondTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	out, err := xml.Marshal(twiml{Message: message})
	if err != nil {
		fmt.Printf("Error encoding TwiML response: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s%s", xml.Header, out)
}
