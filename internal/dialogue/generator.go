package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

// ClarifyingHistory is the number of turns used as clarifying context.
const ClarifyingHistory = 4

// Generator writes the assistant's free-text replies.
type Generator struct {
	llm          Asker
	purchaseLine string
}

// NewGenerator creates a generator. keyword is the purchase command keyword
// advertised after every product list.
func NewGenerator(llm Asker, keyword string) *Generator {
	if keyword == "" {
		keyword = "comprar"
	}
	return &Generator{
		llm:          llm,
		purchaseLine: fmt.Sprintf("Para comprar, digite: %s <n> (número do produto)", strings.ToUpper(keyword)),
	}
}

// PurchaseLine is the fixed instruction appended to product presentations.
func (g *Generator) PurchaseLine() string {
	return g.purchaseLine
}

// Clarify asks for the slots still missing from intent.
func (g *Generator) Clarify(ctx context.Context, intent model.Intent, turns []model.Turn) (string, error) {
	if len(turns) > ClarifyingHistory {
		turns = turns[len(turns)-ClarifyingHistory:]
	}

	prompt := "Histórico da conversa:\n" + renderHistory(turns) + "\n\nResponda de forma natural ao cliente:"
	return g.llm.Ask(ctx, "clarify", clarifyingSystemPrompt(intent), prompt)
}

// Present pitches the matched products. The reply is the model text only;
// callers add PurchaseLine.
func (g *Generator) Present(ctx context.Context, intent model.Intent, products []model.Product) (string, error) {
	prompt := fmt.Sprintf("Cliente procurava %s para %s %s.\n\nProdutos encontrados:\n%s\n\nEscreva uma resposta empolgada e termine com instruções de compra:",
		intent.Category, intent.VehicleModel, intent.VehicleYear, renderProducts(products))

	return g.llm.Ask(ctx, "present", presentationSystemPrompt, prompt)
}
