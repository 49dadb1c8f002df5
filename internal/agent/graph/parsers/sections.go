package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/birthdai/concierge/internal/agent/model"
	logx "github.com/birthdai/concierge/pkg/logger"
)

// safety limits to avoid pathological model output
const (
	maxContentLen = 128 * 1024 // 128KB
	maxSections   = 10
	maxCards      = 12
)

// ExtractGiftSections scans an assistant reply for an embedded JSON payload of
// gift sections and returns the normalised sections plus the surrounding plain
// text. Malformed or absent payloads degrade to the original text with no
// sections, never an error: the reply is still renderable as prose.
func ExtractGiftSections(content string) ([]model.GiftSection, string) {
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "section_parser").
			Int("orig_len", len(content)).
			Int("max_len", maxContentLen).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	payload, before, after := extractJSONPayload(content)
	if payload == "" {
		return nil, strings.TrimSpace(content)
	}

	var envelope struct {
		Sections []rawSection `json:"sections"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil || len(envelope.Sections) == 0 {
		return nil, strings.TrimSpace(content)
	}

	sections := make([]model.GiftSection, 0, len(envelope.Sections))
	for i, rs := range envelope.Sections {
		if i >= maxSections {
			break
		}
		sections = append(sections, normalizeSection(rs, i+1))
	}

	text := strings.TrimSpace(before)
	if tail := strings.TrimSpace(after); tail != "" {
		if text != "" {
			text += "\n\n"
		}
		text += tail
	}
	return sections, text
}

type rawSection struct {
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	Cards   []rawCard `json:"cards"`
}

// rawCard tolerates the loose shapes models produce: numeric or string
// prices, alternate key names, missing fields.
type rawCard struct {
	Title     string          `json:"title"`
	Name      string          `json:"name"`
	Price     json.RawMessage `json:"price"`
	Link      string          `json:"link"`
	URL       string          `json:"url"`
	Thumbnail string          `json:"thumbnail"`
	Source    string          `json:"source"`
	Summary   string          `json:"summary"`
	Position  int             `json:"position"`
}

func normalizeSection(rs rawSection, index int) model.GiftSection {
	s := model.GiftSection{
		Title:   strings.TrimSpace(rs.Title),
		Summary: strings.TrimSpace(rs.Summary),
	}
	if s.Title == "" {
		s.Title = fmt.Sprintf("おすすめ %d", index)
	}
	for i, rc := range rs.Cards {
		if i >= maxCards {
			break
		}
		s.Cards = append(s.Cards, normalizeCard(rc, i+1))
	}
	return s
}

func normalizeCard(rc rawCard, position int) model.GiftCard {
	c := model.GiftCard{
		Title:     strings.TrimSpace(rc.Title),
		Price:     decodePrice(rc.Price),
		Link:      rc.Link,
		Thumbnail: rc.Thumbnail,
		Source:    strings.TrimSpace(rc.Source),
		Summary:   strings.TrimSpace(rc.Summary),
	}
	if c.Title == "" {
		c.Title = strings.TrimSpace(rc.Name)
	}
	if c.Title == "" {
		c.Title = fmt.Sprintf("候補 %d", position)
	}
	if c.Link == "" {
		c.Link = rc.URL
	}
	if rc.Position > 0 {
		position = rc.Position
	}
	c.Rating = ratingFromPosition(position)
	return c
}

// ratingFromPosition derives a display rating from the result position when
// the source carries no rating of its own.
func ratingFromPosition(position int) float64 {
	if position <= 0 {
		return 3.5
	}
	rating := 5.0 - float64(position-1)*0.5
	if rating < 3.0 {
		return 3.0
	}
	if rating > 5.0 {
		return 5.0
	}
	return rating
}

func decodePrice(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return fmt.Sprintf("¥%.0f", f)
	}
	return ""
}

// extractJSONPayload locates the JSON block in the reply: a fenced ```json
// code block when present, otherwise the widest {...} span that decodes.
// Returns the payload plus the text before and after it.
func extractJSONPayload(content string) (payload, before, after string) {
	if fenceStart := strings.Index(content, "```"); fenceStart >= 0 {
		rest := content[fenceStart+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "JSON")
		if fenceEnd := strings.Index(rest, "```"); fenceEnd >= 0 {
			candidate := strings.TrimSpace(rest[:fenceEnd])
			if json.Valid([]byte(candidate)) {
				return candidate, content[:fenceStart], rest[fenceEnd+3:]
			}
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		candidate := content[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, content[:start], content[end+1:]
		}
	}
	return "", content, ""
}
