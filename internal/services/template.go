package services

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/MesaLista/mesabot-backend/internal/models"
	"github.com/MesaLista/mesabot-backend/internal/storage"
)

// MissingValue is the sentinel the prompt corpus uses for a slot the
// conversation has not filled yet. It renders as text but counts as
// falsy in {{#if}} blocks.
const MissingValue = "FALTA"

// fragmentSeparator joins prompt fragments so the model sees where one
// section ends and the next begins.
const fragmentSeparator = "\n\n---\n\n"

var (
	conditionalPattern = regexp.MustCompile(`(?s)\{\{#if\s+([A-Za-z_][\w]*)\s*\}\}(.*?)(?:\{\{else\}\}(.*?))?\{\{/if\}\}`)
	tokenPattern       = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w]*)\s*\}\}`)
	strayMarkerPattern = regexp.MustCompile(`\{\{#if\s+[^}]*\}\}|\{\{else\}\}|\{\{/if\}\}`)
)

// TemplateService renders prompt templates: {{key}} substitution plus
// {{#if key}}...{{else}}...{{/if}} conditional blocks.
type TemplateService struct {
	store storage.Store
}

// NewTemplateService creates a template service backed by the given
// content store.
func NewTemplateService(store storage.Store) *TemplateService {
	return &TemplateService{store: store}
}

// Render substitutes tokens and resolves conditional blocks against the
// context. Unknown keys render as empty strings; a malformed conditional
// is stripped rather than crashing the render.
func (s *TemplateService) Render(template string, ctx models.TemplateContext) string {
	result := conditionalPattern.ReplaceAllStringFunc(template, func(block string) string {
		parts := conditionalPattern.FindStringSubmatch(block)
		value, _ := ctx.Get(parts[1])
		if IsTruthy(value) {
			return parts[2]
		}
		return parts[3]
	})

	// Markers left behind belong to unmatched conditionals. Strip them
	// so the model never sees raw template syntax.
	if strayMarkerPattern.MatchString(result) {
		log.Printf("Template has unmatched conditional markers, stripping them")
		result = strayMarkerPattern.ReplaceAllString(result, "")
	}

	result = tokenPattern.ReplaceAllStringFunc(result, func(token string) string {
		key := tokenPattern.FindStringSubmatch(token)[1]
		value, ok := ctx.Get(key)
		if !ok {
			return ""
		}
		return Stringify(value)
	})

	return result
}

// AssembleSystemPrompt loads the restaurant's fragment sequence,
// concatenates it with a visible separator and renders the whole text
// in one pass. A restaurant with no fragments yields an empty prompt,
// not an error.
func (s *TemplateService) AssembleSystemPrompt(restaurantID string, ctx models.TemplateContext) string {
	fragments, err := s.store.GetFragmentSequence(restaurantID)
	if err != nil {
		log.Printf("Failed to load fragments for %s: %v", restaurantID, err)
		return ""
	}

	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f.Text == "" {
			continue
		}
		parts = append(parts, f.Text)
	}

	return s.Render(strings.Join(parts, fragmentSeparator), ctx)
}

// IsTruthy decides whether a context value enables an {{#if}} block.
// False, nil, the empty string and the "FALTA" sentinel are falsy;
// everything else, including the string "0", is truthy.
func IsTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != MissingValue
	case *string:
		return v != nil && *v != "" && *v != MissingValue
	default:
		return true
	}
}

// Stringify renders a context value the way the prompts expect:
// booleans as true/false, numbers in decimal, nil as empty.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
