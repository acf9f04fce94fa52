package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/models"
	"github.com/dogwatch-dev/dogwatch/internal/types"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Image       *DiscordImage         `json:"image,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordImage struct {
	URL string `json:"url"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Fields    []SlackField `json:"fields"`
	ImageURL  string       `json:"image_url,omitempty"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue  = 3447003 // new listing
	ColorGreen = 65280   // adopted

	Username = "Dogwatch"

	sendTimeout = 10 * time.Second
)

// Notifier announces new listings and adoptions to Discord and Slack.
type Notifier struct {
	DiscordURL string
	SlackURL   string
	Client     *http.Client
}

func (n *Notifier) Enabled() bool {
	return n != nil && (n.DiscordURL != "" || n.SlackURL != "")
}

// DogListed is sent when a dog is put up for adoption.
func (n *Notifier) DogListed(ctx context.Context, dog types.DogResponse) error {
	return n.send(ctx, dog, "New dog listed", fmt.Sprintf("**%s** is looking for a home.", dog.Name), ColorBlue, ":dog:")
}

// DogAdopted is sent when a listing moves from Available to Adopted.
func (n *Notifier) DogAdopted(ctx context.Context, dog types.DogResponse) error {
	return n.send(ctx, dog, "Dog adopted", fmt.Sprintf("**%s** has found a home.", dog.Name), ColorGreen, ":tada:")
}

func (n *Notifier) send(ctx context.Context, dog types.DogResponse, title, description string, color int, emoji string) error {
	if n.DiscordURL != "" {
		if err := n.sendDiscord(ctx, discordPayload(dog, title, description, color)); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.SlackURL != "" {
		if err := n.sendSlack(ctx, slackPayload(dog, title, emoji)); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func dogFields(dog types.DogResponse) [][2]string {
	breed := "Unknown"
	if dog.Breed != nil {
		breed = dog.Breed.Name
	}

	age := "Unknown"
	if dog.Age != nil {
		age = fmt.Sprintf("%d", *dog.Age)
	}

	return [][2]string{
		{"Breed", breed},
		{"Age", age},
		{"Listed by", dog.User.Username},
	}
}

func discordPayload(dog types.DogResponse, title, description string, color int) DiscordWebhookRequest {
	embed := DiscordEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	for _, f := range dogFields(dog) {
		embed.Fields = append(embed.Fields, DiscordWebhookField{Name: f[0], Value: f[1], Inline: true})
	}

	if dog.ImageURL != nil && *dog.ImageURL != "" {
		embed.Image = &DiscordImage{URL: *dog.ImageURL}
	}

	return DiscordWebhookRequest{Username: Username, Embeds: []DiscordEmbed{embed}}
}

func slackPayload(dog types.DogResponse, title, emoji string) SlackWebhookRequest {
	attachment := SlackAttachment{
		Color:     "good",
		Title:     dog.Name,
		Timestamp: time.Now().Unix(),
	}

	for _, f := range dogFields(dog) {
		attachment.Fields = append(attachment.Fields, SlackField{Title: f[0], Value: f[1], Short: true})
	}

	if dog.ImageURL != nil {
		attachment.ImageURL = *dog.ImageURL
	}

	return SlackWebhookRequest{
		Username:    Username,
		IconEmoji:   emoji,
		Text:        fmt.Sprintf("%s *%s*", emoji, title),
		Attachments: []SlackAttachment{attachment},
	}
}

func (n *Notifier) sendDiscord(ctx context.Context, payload DiscordWebhookRequest) error {
	return n.post(ctx, n.DiscordURL, payload)
}

func (n *Notifier) sendSlack(ctx context.Context, payload SlackWebhookRequest) error {
	return n.post(ctx, n.SlackURL, payload)
}

func (n *Notifier) post(ctx context.Context, webhookURL string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// Adopted reports whether an update moved a dog from Available to Adopted.
func Adopted(previous, current models.DogStatus) bool {
	return previous == models.DogStatusAvailable && current == models.DogStatusAdopted
}
