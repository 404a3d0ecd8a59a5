package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// MeetingLinks is the external collaborator that attaches a conferencing
// link to a booking. Failures never gate a lifecycle operation.
type MeetingLinks interface {
	CreateMeetingLink(ctx context.Context, et *EventType, b *Booking) (string, error)
}

// GoogleMeetLinks creates Google Meet links by inserting a calendar event
// with a conference request.
type GoogleMeetLinks struct {
	config *oauth2.Config
	token  *oauth2.Token
}

func googleOAuthConfig() *oauth2.Config {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

// NewGoogleMeetLinksFromEnv returns nil when the integration is not
// configured; callers treat a nil provider as "no meeting links".
// GOOGLE_TOKEN_JSON holds the OAuth token obtained via /api/calendar/auth.
func NewGoogleMeetLinksFromEnv() *GoogleMeetLinks {
	config := googleOAuthConfig()
	if config == nil {
		return nil
	}
	raw := os.Getenv("GOOGLE_TOKEN_JSON")
	if raw == "" {
		return nil
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil
	}
	return &GoogleMeetLinks{config: config, token: &token}
}

func (g *GoogleMeetLinks) CreateMeetingLink(ctx context.Context, et *EventType, b *Booking) (string, error) {
	client := g.config.Client(ctx, g.token)
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("create calendar service: %w", err)
	}

	event := &calendar.Event{
		Summary: et.Title,
		Start:   &calendar.EventDateTime{DateTime: b.StartAtUTC.Format(time.RFC3339), TimeZone: "UTC"},
		End:     &calendar.EventDateTime{DateTime: b.EndAtUTC.Format(time.RFC3339), TimeZone: "UTC"},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             b.ID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	created, err := srv.Events.Insert("primary", event).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	if created.HangoutLink != "" {
		return created.HangoutLink, nil
	}
	return created.HtmlLink, nil
}

// GoogleAuthHandler starts the OAuth2 flow used to obtain the token for the
// meeting-link integration.
func (a *App) GoogleAuthHandler(c *gin.Context) {
	config := googleOAuthConfig()
	if config == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}

	state := uuid.New().String()
	url := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{"auth_url": url, "state": state})
}

// GoogleOAuth2CallbackHandler exchanges the authorization code for a token.
// The token JSON is returned so an operator can wire it into
// GOOGLE_TOKEN_JSON.
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	config := googleOAuthConfig()
	if config == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google Calendar not configured"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	token, err := config.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}

	tokenJSON, _ := json.Marshal(token)
	c.JSON(http.StatusOK, gin.H{
		"message": "authorization successful",
		"state":   c.Query("state"),
		"token":   string(tokenJSON),
	})
}
