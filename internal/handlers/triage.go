package handlers

import (
	"fmt"
	"strings"

	"github.com/Kedjuprecious/medibot-app/internal/models"
)

// Canned triage script. The real backend prompts a model to ask two
// follow-up questions and then produce a recommendation ending in a
// "Summary:" section; the stub reproduces that shape deterministically so
// client behavior (including escalation) can be exercised offline.
var followUpQuestions = []string{
	"I'm sorry to hear that. How long have you been experiencing this, and does it get worse with physical activity?",
	"Thank you. Do you have any other symptoms alongside it, such as shortness of breath, dizziness, or palpitations?",
}

const recommendation = `Based on what you've described, I recommend you rest, avoid strenuous activity, and monitor your symptoms closely. Stay hydrated, limit salt and caffeine, and keep a note of when the symptoms occur. If the pain becomes crushing, spreads to your arm or jaw, or is accompanied by fainting, seek emergency care immediately.`

// TriageReply returns the assistant reply for a conversation whose messages
// include the latest user message. The first two user turns get follow-up
// questions; later turns get the recommendation plus a case summary.
func TriageReply(messages []models.Message) string {
	var userTurns int
	var symptoms []string
	for _, m := range messages {
		if m.Sender == "user" {
			userTurns++
			symptoms = append(symptoms, m.Content)
		}
	}

	if userTurns >= 1 && userTurns <= len(followUpQuestions) {
		return followUpQuestions[userTurns-1]
	}

	first := "no symptoms reported"
	if len(symptoms) > 0 {
		first = strings.TrimSpace(symptoms[0])
	}

	return fmt.Sprintf(
		"%s\n\nSummary: patient reports %s, with %d follow-up answers recorded. Cardiology consultation is advised.",
		recommendation, first, len(symptoms)-1)
}
