package dialogflow

import "strings"

// WebhookResponse is the fulfillment reply.
type WebhookResponse struct {
	FulfillmentText     string    `json:"fulfillmentText,omitempty"`
	FulfillmentMessages []Message `json:"fulfillmentMessages,omitempty"`
	Payload             *Payload  `json:"payload,omitempty"`
	OutputContexts      []Context `json:"outputContexts,omitempty"`
}

// Message is one generic rich message rendered by Dialogflow integrations.
type Message struct {
	Platform string `json:"platform,omitempty"`
	Text     *Text  `json:"text,omitempty"`
	Card     *Card  `json:"card,omitempty"`
}

type Text struct {
	Text []string `json:"text"`
}

type Card struct {
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	ImageURI string       `json:"imageUri,omitempty"`
	Buttons  []CardButton `json:"buttons,omitempty"`
}

type CardButton struct {
	Text     string `json:"text"`
	Postback string `json:"postback,omitempty"`
}

// Payload carries integration-specific responses.
type Payload struct {
	Google *GooglePayload `json:"google,omitempty"`
}

// GooglePayload is the Actions on Google conversation response.
type GooglePayload struct {
	ExpectUserResponse bool         `json:"expectUserResponse"`
	RichResponse       RichResponse `json:"richResponse"`
}

type RichResponse struct {
	Items       []Item       `json:"items"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// Item is exactly one of the rich response kinds.
type Item struct {
	SimpleResponse *SimpleResponse `json:"simpleResponse,omitempty"`
	BasicCard      *BasicCard      `json:"basicCard,omitempty"`
	CarouselBrowse *CarouselBrowse `json:"carouselBrowse,omitempty"`
}

type SimpleResponse struct {
	TextToSpeech string `json:"textToSpeech"`
	DisplayText  string `json:"displayText,omitempty"`
}

type BasicCard struct {
	Title         string   `json:"title,omitempty"`
	Subtitle      string   `json:"subtitle,omitempty"`
	FormattedText string   `json:"formattedText,omitempty"`
	Image         *Image   `json:"image,omitempty"`
	Buttons       []Button `json:"buttons,omitempty"`
}

type Image struct {
	URL               string `json:"url"`
	AccessibilityText string `json:"accessibilityText"`
}

type Button struct {
	Title         string        `json:"title"`
	OpenURLAction OpenURLAction `json:"openUrlAction"`
}

type OpenURLAction struct {
	URL string `json:"url"`
}

type CarouselBrowse struct {
	Items []BrowseItem `json:"items"`
}

type BrowseItem struct {
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Footer        string        `json:"footer,omitempty"`
	Image         *Image        `json:"image,omitempty"`
	OpenURLAction OpenURLAction `json:"openUrlAction"`
}

type Suggestion struct {
	Title string `json:"title"`
}

// minCarouselItems is the Actions on Google lower bound for a browse carousel.
const minCarouselItems = 2

// Tile is a platform-neutral visual element: a card, or one carousel entry.
type Tile struct {
	Title       string
	Subtitle    string
	Description string
	Footer      string
	ImageURL    string
	LinkTitle   string
	LinkURL     string
}

// ResponseBuilder accumulates reply parts for one webhook turn.
type ResponseBuilder struct {
	google     bool
	screen     bool
	texts      []string
	card       *Tile
	carousel   []Tile
	suggests   []string
	contexts   []Context
	expectMore bool
}

// NewResponse creates a builder that targets the integration req came from.
func NewResponse(req *WebhookRequest) *ResponseBuilder {
	return &ResponseBuilder{
		google:     req.IsGoogle(),
		screen:     req.HasScreen(),
		expectMore: true,
	}
}

// AddText appends a plain text reply.
func (b *ResponseBuilder) AddText(text ...string) *ResponseBuilder {
	b.texts = append(b.texts, text...)
	return b
}

// SetCard attaches a single card.
func (b *ResponseBuilder) SetCard(t Tile) *ResponseBuilder {
	b.card = &t
	return b
}

// SetCarousel attaches one tile per entry.
func (b *ResponseBuilder) SetCarousel(tiles []Tile) *ResponseBuilder {
	b.carousel = tiles
	return b
}

// AddSuggestions appends quick-reply chips (Actions on Google only).
func (b *ResponseBuilder) AddSuggestions(titles ...string) *ResponseBuilder {
	b.suggests = append(b.suggests, titles...)
	return b
}

// AddContext appends an output context.
func (b *ResponseBuilder) AddContext(c Context) *ResponseBuilder {
	b.contexts = append(b.contexts, c)
	return b
}

// Build renders the response. Generic messages are always present; the Google
// payload is added for Actions on Google, with visuals only on screen surfaces.
func (b *ResponseBuilder) Build() *WebhookResponse {
	resp := &WebhookResponse{
		FulfillmentText: strings.Join(b.texts, " "),
		OutputContexts:  b.contexts,
	}

	for _, t := range b.texts {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, Message{Text: &Text{Text: []string{t}}})
	}
	if b.card != nil {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, Message{Card: genericCard(*b.card)})
	}
	for _, t := range b.carousel {
		resp.FulfillmentMessages = append(resp.FulfillmentMessages, Message{Card: genericCard(t)})
	}

	if b.google {
		resp.Payload = &Payload{Google: b.googlePayload()}
	}
	return resp
}

func (b *ResponseBuilder) googlePayload() *GooglePayload {
	text := strings.Join(b.texts, " ")
	g := &GooglePayload{ExpectUserResponse: b.expectMore}
	// A rich response must open with a simple response.
	g.RichResponse.Items = append(g.RichResponse.Items, Item{SimpleResponse: &SimpleResponse{TextToSpeech: text}})

	if b.screen {
		if b.card != nil {
			g.RichResponse.Items = append(g.RichResponse.Items, Item{BasicCard: basicCard(*b.card)})
		}
		if len(b.carousel) >= minCarouselItems {
			items := make([]BrowseItem, 0, len(b.carousel))
			for _, t := range b.carousel {
				items = append(items, browseItem(t))
			}
			g.RichResponse.Items = append(g.RichResponse.Items, Item{CarouselBrowse: &CarouselBrowse{Items: items}})
		}
		for _, s := range b.suggests {
			g.RichResponse.Suggestions = append(g.RichResponse.Suggestions, Suggestion{Title: s})
		}
	}
	return g
}

func genericCard(t Tile) *Card {
	c := &Card{Title: t.Title, Subtitle: t.Subtitle, ImageURI: t.ImageURL}
	if c.Subtitle == "" {
		c.Subtitle = t.Description
	}
	if t.LinkURL != "" {
		c.Buttons = []CardButton{{Text: t.LinkTitle, Postback: t.LinkURL}}
	}
	return c
}

func basicCard(t Tile) *BasicCard {
	c := &BasicCard{Title: t.Title, Subtitle: t.Subtitle, FormattedText: t.Description}
	if t.ImageURL != "" {
		c.Image = &Image{URL: t.ImageURL, AccessibilityText: t.Title}
	}
	if t.LinkURL != "" {
		c.Buttons = []Button{{Title: t.LinkTitle, OpenURLAction: OpenURLAction{URL: t.LinkURL}}}
	}
	return c
}

func browseItem(t Tile) BrowseItem {
	item := BrowseItem{
		Title:         t.Title,
		Description:   t.Description,
		Footer:        t.Footer,
		OpenURLAction: OpenURLAction{URL: t.LinkURL},
	}
	if t.ImageURL != "" {
		item.Image = &Image{URL: t.ImageURL, AccessibilityText: t.Title}
	}
	return item
}
