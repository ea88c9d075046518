package notify

import (
	"fmt"
	"strings"

	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
)

// Compose renders the email for a queued notification. actorName is the
// display name of the alumnus who triggered it.
func Compose(n *models.PendingNotification, actorName, baseURL string) (subject, body string) {
	baseURL = strings.TrimRight(baseURL, "/")

	switch n.Kind {
	case models.NotifyConnectionRequested:
		subject = fmt.Sprintf("%s wants to connect with you", actorName)
		body = fmt.Sprintf("%s sent you a connection request.\n\nReview it at %s/connections/requests\n", actorName, baseURL)
	case models.NotifyConnectionAccepted:
		subject = fmt.Sprintf("%s accepted your connection request", actorName)
		body = fmt.Sprintf("You and %s are now connected.\n\nSay hello at %s/messages/%d\n", actorName, baseURL, n.ActorID)
	case models.NotifyMessageReceived:
		subject = fmt.Sprintf("New message from %s", actorName)
		body = fmt.Sprintf("%s wrote:\n\n%s\n\nReply at %s/messages/%d\n", actorName, n.Preview, baseURL, n.ActorID)
	default:
		subject = "You have a new notification"
		body = fmt.Sprintf("Visit %s to see what's new.\n", baseURL)
	}
	return subject, body
}
