package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
)

const fcmSendEndpoint = "https://fcm.googleapis.com/fcm/send"

// NotificationService delivers FCM push notifications to officer devices
type NotificationService struct {
	serverKey string
	endpoint  string
	client    *http.Client
	enabled   bool
}

// NewNotificationService creates a new notification service. Push delivery is
// disabled when FCM_SERVER_KEY is not configured.
func NewNotificationService() *NotificationService {
	key := os.Getenv("FCM_SERVER_KEY")
	return &NotificationService{
		serverKey: key,
		endpoint:  fcmSendEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
		enabled:   key != "",
	}
}

// IsEnabled checks if push notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// fcmPayload is the FCM legacy HTTP message body
type fcmPayload struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notify sends a push notification to a device token. Fire-and-forget:
// failures are logged and swallowed so they can never stall or roll back the
// mutation that triggered them.
func (s *NotificationService) Notify(deviceToken, title, body string) {
	if !s.enabled || deviceToken == "" {
		return
	}

	payload, err := json.Marshal(fcmPayload{
		To:           deviceToken,
		Notification: fcmNotification{Title: title, Body: body},
	})
	if err != nil {
		log.Printf("❌ FCM payload error: %v", err)
		return
	}

	req, err := http.NewRequest("POST", s.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("❌ FCM request error: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("❌ FCM send error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("⚠️ FCM send returned status %d", resp.StatusCode)
	}
}
