package model

import (
	"strings"

	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

// Category is a static topical tag assigned to content by keyword matching
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

// Category identifiers
const (
	CategoryGaming    = "gaming"
	CategoryMobile    = "mobile"
	CategoryWeb       = "web"
	CategoryTechnical = "technical"
	CategoryBusiness  = "business"
)

// categoryThreshold is the number of distinct keyword hits needed to assign a category
const categoryThreshold = 2

// Categories is the fixed category table
var Categories = []Category{
	{
		ID:    CategoryGaming,
		Name:  "Gaming",
		Color: "bg-purple-600",
		Keywords: []string{
			"unity", "godot", "game", "gaming", "player", "play", "gameplay", "sdk", "crash", "performance",
			"mobile game", "console", "steam", "epic", "nintendo", "playstation", "xbox", "indie game",
			"game engine", "rendering", "physics", "animation", "audio", "networking", "multiplayer",
		},
		Description: "Content related to game development, gaming SDKs, and game performance",
	},
	{
		ID:    CategoryMobile,
		Name:  "Mobile",
		Color: "bg-blue-600",
		Keywords: []string{
			"ios", "android", "mobile", "app", "smartphone", "tablet", "flutter", "react native", "swift",
			"kotlin", "java", "objective-c", "mobile sdk", "app store", "google play", "mobile performance",
			"mobile crash", "mobile analytics", "mobile monitoring", "mobile debugging", "mobile development",
		},
		Description: "Content related to mobile app development, iOS/Android SDKs, and mobile performance",
	},
	{
		ID:    CategoryWeb,
		Name:  "Web",
		Color: "bg-green-600",
		Keywords: []string{
			"web", "javascript", "typescript", "react", "vue", "angular", "node.js", "next.js", "frontend",
			"backend", "api", "html", "css", "browser", "chrome", "firefox", "safari", "edge", "webpack",
			"vite", "npm", "yarn", "web performance", "web vitals", "lighthouse", "pwa", "spa",
		},
		Description: "Content related to web development, frontend frameworks, and web performance",
	},
	{
		ID:    CategoryTechnical,
		Name:  "Technical Content",
		Color: "bg-yellow-600",
		Keywords: []string{
			"sdk", "api", "integration", "monitoring", "observability", "debugging", "performance", "error",
			"crash", "trace", "span", "metrics", "alerting", "dashboard", "logging", "tracing", "profiling",
			"optimization", "best practices", "tutorial", "how-to", "guide", "documentation", "code example",
			"mcp", "agent", "ai", "machine learning", "llm", "model", "training", "inference", "seer",
		},
		Description: "Technical tutorials, SDK documentation, and development guides",
	},
	{
		ID:    CategoryBusiness,
		Name:  "Business Content",
		Color: "bg-red-600",
		Keywords: []string{
			"business", "product", "feature", "announcement", "release", "update", "roadmap", "strategy",
			"customer", "user", "market", "industry", "partnership", "acquisition", "funding", "growth",
			"analytics", "insights", "case study", "success story", "enterprise", "team", "company",
			"ai", "artificial intelligence", "machine learning", "llm", "agent", "mcp", "seer",
		},
		Description: "Business announcements, product updates, and company news",
	},
}

// tutorialHints mark a video as technical when no category reached the threshold
var tutorialHints = []string{"tutorial", "how", "guide"}

// DetectCategories classifies a title/description pair. A category is
// selected when at least two of its keywords occur as substrings of the
// lower-cased text. Without any match the source decides. The result is
// never empty.
func DetectCategories(title, description string, source types.Source) []string {
	text := strings.ToLower(title + " " + description)

	var detected []string
	for _, cat := range Categories {
		count := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				count++
			}
		}
		if count >= categoryThreshold {
			detected = append(detected, cat.ID)
		}
	}
	if len(detected) > 0 {
		return detected
	}

	return []string{fallbackCategory(text, source)}
}

func fallbackCategory(text string, source types.Source) string {
	switch source {
	case types.SourceChangelog, types.SourceDocs:
		return CategoryTechnical
	case types.SourceYouTube:
		for _, hint := range tutorialHints {
			if strings.Contains(text, hint) {
				return CategoryTechnical
			}
		}
		return CategoryBusiness
	default:
		return CategoryBusiness
	}
}

// CategoryByID looks up a category
func CategoryByID(id string) (*Category, bool) {
	for i := range Categories {
		if Categories[i].ID == id {
			return &Categories[i], true
		}
	}
	return nil, false
}

// CategoryName returns the display name of id, or "Other"
func CategoryName(id string) string {
	if c, ok := CategoryByID(id); ok {
		return c.Name
	}
	return "Other"
}

// CategoryColor returns the display color of id, or a neutral gray
func CategoryColor(id string) string {
	if c, ok := CategoryByID(id); ok {
		return c.Color
	}
	return "bg-gray-600"
}
