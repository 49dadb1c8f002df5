package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGiftSectionsFencedBlock(t *testing.T) {
	content := "お父さんへのプレゼント候補です！\n" +
		"```json\n" +
		`{"sections":[{"title":"コーヒー好きに","summary":"毎朝の一杯が楽しみになる道具","cards":[` +
		`{"title":"ハンドドリップセット","price":"¥8,500","link":"https://example.com/p1","source":"Example Store"},` +
		`{"title":"電動ミル","price":12000,"url":"https://example.com/p2"}]}]}` +
		"\n```\n気になるものはありますか？"

	sections, text := ExtractGiftSections(content)
	require.Len(t, sections, 1)

	sec := sections[0]
	assert.Equal(t, "コーヒー好きに", sec.Title)
	assert.Equal(t, "毎朝の一杯が楽しみになる道具", sec.Summary)
	require.Len(t, sec.Cards, 2)

	assert.Equal(t, "ハンドドリップセット", sec.Cards[0].Title)
	assert.Equal(t, "¥8,500", sec.Cards[0].Price)
	assert.Equal(t, "https://example.com/p1", sec.Cards[0].Link)
	assert.InDelta(t, 5.0, sec.Cards[0].Rating, 0.001)

	// numeric price and alternate link key are normalised
	assert.Equal(t, "¥12000", sec.Cards[1].Price)
	assert.Equal(t, "https://example.com/p2", sec.Cards[1].Link)
	assert.InDelta(t, 4.5, sec.Cards[1].Rating, 0.001)

	assert.Contains(t, text, "お父さんへのプレゼント候補です！")
	assert.Contains(t, text, "気になるものはありますか？")
	assert.NotContains(t, text, "sections")
}

func TestExtractGiftSectionsBareJSON(t *testing.T) {
	content := `候補はこちら {"sections":[{"title":"A","cards":[{"name":"B"}]}]}`

	sections, text := ExtractGiftSections(content)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Cards, 1)
	assert.Equal(t, "B", sections[0].Cards[0].Title)
	assert.Equal(t, "候補はこちら", text)
}

func TestExtractGiftSectionsPlainText(t *testing.T) {
	content := "予算とお相手について教えてください。"

	sections, text := ExtractGiftSections(content)
	assert.Nil(t, sections)
	assert.Equal(t, content, text)
}

func TestExtractGiftSectionsMalformedPayload(t *testing.T) {
	content := "結果です {\"sections\": [broken"

	sections, text := ExtractGiftSections(content)
	assert.Nil(t, sections)
	assert.Equal(t, content, text)
}

func TestExtractGiftSectionsEmptyTitlesGetFallbacks(t *testing.T) {
	content := `{"sections":[{"cards":[{}]}]}`

	sections, _ := ExtractGiftSections(content)
	require.Len(t, sections, 1)
	assert.Equal(t, "おすすめ 1", sections[0].Title)
	require.Len(t, sections[0].Cards, 1)
	assert.Equal(t, "候補 1", sections[0].Cards[0].Title)
}

func TestRatingFromPosition(t *testing.T) {
	assert.InDelta(t, 3.5, ratingFromPosition(0), 0.001)
	assert.InDelta(t, 5.0, ratingFromPosition(1), 0.001)
	assert.InDelta(t, 4.0, ratingFromPosition(3), 0.001)
	assert.InDelta(t, 3.0, ratingFromPosition(9), 0.001)
}
