package prompt

import "fmt"

// Mode selects the travel planner's persona.
type Mode int

const (
	ModeItinerary Mode = iota + 1
	ModeTips
	ModeDestinations
)

// Modes lists every travel mode in display order.
func Modes() []Mode {
	return []Mode{ModeItinerary, ModeTips, ModeDestinations}
}

// ParseMode maps a wire slug to a Mode.
func ParseMode(slug string) (Mode, error) {
	for _, m := range Modes() {
		if m.Slug() == slug {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, slug)
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	return m >= ModeItinerary && m <= ModeDestinations
}

// Slug is the mode's identifier on the wire.
func (m Mode) Slug() string {
	switch m {
	case ModeItinerary:
		return "itinerary"
	case ModeTips:
		return "tips"
	case ModeDestinations:
		return "destinations"
	}
	return ""
}

func (m Mode) String() string {
	switch m {
	case ModeItinerary:
		return "Trip Itinerary"
	case ModeTips:
		return "Travel Tips"
	case ModeDestinations:
		return "Destination Recommendations"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Instruction is the mode's fixed system instruction.
func (m Mode) Instruction() string {
	switch m {
	case ModeItinerary:
		return "You are a travel expert who creates detailed and personalized trip itineraries.\n" +
			"Follow these guidelines:\n" +
			"1. Start with an overview of the destination\n" +
			"2. Include a day-by-day breakdown of activities\n" +
			"3. Suggest must-visit attractions and hidden gems\n" +
			"4. Provide recommendations for local cuisine and dining\n" +
			"5. Include transportation tips and options\n" +
			"6. Add cultural or historical context for key locations\n" +
			"7. Offer packing tips based on the destination's climate"
	case ModeTips:
		return "You are a seasoned traveler who provides practical advice for smooth trips.\n" +
			"Provide tips on:\n" +
			"1. Best times to visit specific destinations\n" +
			"2. Budgeting and saving money while traveling\n" +
			"3. Navigating local customs and etiquette\n" +
			"4. Staying safe and healthy during travel\n" +
			"5. Packing efficiently for different types of trips\n" +
			"6. Finding affordable accommodations and flights\n" +
			"7. Making the most of layovers and short trips"
	case ModeDestinations:
		return "You are a travel guide who suggests destinations based on user preferences.\n" +
			"Consider:\n" +
			"1. The traveler's interests (e.g., adventure, relaxation, culture)\n" +
			"2. Budget constraints\n" +
			"3. Preferred climate and season\n" +
			"4. Travel duration\n" +
			"5. Group size and demographics (e.g., family, solo, couple)\n" +
			"6. Accessibility and travel restrictions\n" +
			"7. Unique experiences or events happening at the destination"
	}
	return ""
}

// Placeholder is the example text shown in an empty request box.
func (m Mode) Placeholder() string {
	switch m {
	case ModeItinerary:
		return "Examples:\n" +
			"1. \"Plan a 5-day trip to Japan focusing on culture and food\"\n" +
			"2. \"Create a 7-day itinerary for a family vacation in Italy\"\n" +
			"3. \"Suggest a 3-day weekend getaway for adventure lovers in Costa Rica\"\n" +
			"4. \"Design a 10-day road trip across the American Southwest\"\n" +
			"5. \"Plan a romantic 4-day trip to Paris\"\n\n" +
			"Your request:"
	case ModeTips:
		return "Ask for travel tips or advice.\n" +
			"Examples:\n" +
			"1. \"What are the best ways to save money while traveling in Europe?\"\n" +
			"2. \"How can I stay safe while traveling solo in South America?\"\n" +
			"3. \"What should I pack for a two-week trip to Southeast Asia?\"\n" +
			"4. \"What are some tips for traveling with young children?\"\n" +
			"5. \"How do I handle language barriers in non-English-speaking countries?\""
	case ModeDestinations:
		return "Describe your preferences for destination suggestions.\n" +
			"Examples:\n" +
			"1. \"I want a relaxing beach vacation with good food and clear water\"\n" +
			"2. \"I'm looking for an adventurous trip with hiking and wildlife\"\n" +
			"3. \"Suggest a cultural destination with historical sites and museums\"\n" +
			"4. \"I need a budget-friendly destination for a family of four\"\n" +
			"5. \"Where can I go for a romantic getaway with stunning views?\""
	}
	return ""
}

// DefaultRequest pre-fills the request box.
func (m Mode) DefaultRequest() string {
	switch m {
	case ModeItinerary:
		return "Plan a 7-day trip to Japan focusing on culture and food"
	case ModeTips:
		return "What are the best ways to save money while traveling in Europe?"
	case ModeDestinations:
		return "I want a relaxing beach vacation with good food and clear water"
	}
	return ""
}

// Travel builds the pair for a travel request. The request is sent verbatim.
func Travel(mode Mode, request string) (Pair, error) {
	if !mode.Valid() {
		return Pair{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	return Pair{System: mode.Instruction(), User: request}, nil
}
