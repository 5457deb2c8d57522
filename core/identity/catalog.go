package identity

// Card is one entry of the catalog feed and of per-item supplemental records.
type Card struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	FrameType   string      `json:"frameType,omitempty"`
	Desc        string      `json:"desc,omitempty"`
	Race        string      `json:"race,omitempty"`
	Archetype   string      `json:"archetype,omitempty"`
	Atk         *int        `json:"atk,omitempty"`
	Def         *int        `json:"def,omitempty"`
	Level       *int        `json:"level,omitempty"`
	Rank        *int        `json:"rank,omitempty"`
	Attribute   string      `json:"attribute,omitempty"`
	LinkVal     *int        `json:"linkval,omitempty"`
	LinkMarkers []string    `json:"linkmarkers,omitempty"`
	Scale       *int        `json:"scale,omitempty"`
	TypeLine    []string    `json:"typeline,omitempty"`
	Images      []CardImage `json:"card_images"`
	Prices      []CardPrice `json:"card_prices,omitempty"`
}

// CardImage is one artwork of a card. Its ID is the artwork's passcode.
type CardImage struct {
	ID            int    `json:"id"`
	ImageURL      string `json:"image_url,omitempty"`
	ImageURLSmall string `json:"image_url_small,omitempty"`
}

// CardPrice holds market prices as published by the feed.
type CardPrice struct {
	CardmarketPrice string `json:"cardmarket_price,omitempty"`
	TCGPlayerPrice  string `json:"tcgplayer_price,omitempty"`
}

// Passcodes returns the passcodes of every artwork, in feed order.
// A card without images is identified by its own id.
func (c *Card) Passcodes() []int {
	if len(c.Images) == 0 {
		if c.ID == 0 {
			return nil
		}
		return []int{c.ID}
	}
	out := make([]int, 0, len(c.Images))
	for _, img := range c.Images {
		if img.ID != 0 {
			out = append(out, img.ID)
		}
	}
	return out
}

type catalogFeed struct {
	Data []Card `json:"data"`
}

type archetypeFeed struct {
	Data []struct {
		Name string `json:"archetype_name"`
	} `json:"data"`
}
