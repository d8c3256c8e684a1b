package dialogue

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// Asker sends one system instruction and one user prompt to the language
// model. *llm.Service implements it.
type Asker interface {
	Ask(ctx context.Context, purpose, system, prompt string) (string, error)
}

// DefaultExtractionHistory is the number of turns sent for extraction.
const DefaultExtractionHistory = 20

const nullSentinel = "null"

// Extractor infers intent slots from the conversation.
type Extractor struct {
	llm     Asker
	history int
	log     *logger.Logger
}

// NewExtractor creates an extractor reading the last history turns.
func NewExtractor(llm Asker, history int, log *logger.Logger) *Extractor {
	if history <= 0 {
		history = DefaultExtractionHistory
	}
	return &Extractor{llm: llm, history: history, log: log}
}

// Extract returns the slots the model could identify. A failed call yields an
// empty intent.
func (e *Extractor) Extract(ctx context.Context, turns []model.Turn) model.Intent {
	if len(turns) > e.history {
		turns = turns[len(turns)-e.history:]
	}

	prompt := "Conversa completa:\n" + renderHistory(turns) + "\n\nQue informações consegue extrair?"
	reply, err := e.llm.Ask(ctx, "extract", extractionSystemPrompt, prompt)
	if err != nil {
		e.log.Warn("slot extraction failed", zap.Error(err))
		return model.Intent{}
	}
	return ParseSlots(reply)
}

// ParseSlots reads "label: value" lines. Unknown labels, empty values and the
// null sentinel are ignored.
func ParseSlots(text string) model.Intent {
	var intent model.Intent
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		label = strings.ToLower(strings.Trim(strings.TrimSpace(label), "-*• "))
		value = strings.Trim(strings.TrimSpace(value), `"'.`)
		if value == "" || strings.EqualFold(value, nullSentinel) {
			continue
		}

		switch label {
		case model.SlotCategory:
			intent.Category = strings.ToLower(value)
		case model.SlotVehicleModel:
			intent.VehicleModel = strings.ToLower(value)
		case model.SlotVehicleYear:
			intent.VehicleYear = value
		}
	}
	return intent
}
