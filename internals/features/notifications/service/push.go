package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ExpoPushURL bisa dioverride di test.
var ExpoPushURL = "https://exp.host/--/api/v2/push/send"

var pushClient = &http.Client{Timeout: 5 * time.Second}

type expoPushMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
	Sound string         `json:"sound"`
}

// SendExpoPush mengirim push notification ke satu device token Expo.
// Token stale/format salah dianggap error biasa; caller yang memutuskan
// mau log atau tidak (delivery best-effort).
func SendExpoPush(token, title, body string, data map[string]any) error {
	if !strings.HasPrefix(token, "ExponentPushToken[") {
		return fmt.Errorf("push token tidak valid: %s", token)
	}

	payload, err := json.Marshal(expoPushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, ExpoPushURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := pushClient.Do(req)
	if err != nil {
		return fmt.Errorf("gagal kirim push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gagal status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
