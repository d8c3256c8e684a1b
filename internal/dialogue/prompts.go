package dialogue

import (
	"fmt"
	"strings"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

const extractionSystemPrompt = `Analise a conversa e extraia informações sobre auto peças.
Responda apenas no formato:
categoria: valor
modelo_carro: valor
ano: valor

Categorias possíveis: interface, som, alarme, acessorio.
Use null se não identificar algo.`

const presentationSystemPrompt = `Você é um vendedor animado que encontrou produtos perfeitos.
Mencione os produtos com preços e pergunte qual interessa mais.
Use no máximo 100 palavras.`

func clarifyingSystemPrompt(intent model.Intent) string {
	missing := missingSlots(intent)
	need := "nada, tenho tudo"
	if len(missing) > 0 {
		need = strings.Join(missing, ", ")
	}

	return fmt.Sprintf(`Você é um vendedor brasileiro de auto peças conversando via WhatsApp.
Seja natural, amigável e direto. Use no máximo 50 palavras.

INFORMAÇÕES QUE JÁ TENHO:
- Categoria: %s
- Modelo: %s
- Ano: %s

AINDA PRECISO: %s

Conduza a conversa naturalmente para descobrir as informações que faltam.`,
		orUnknown(intent.Category),
		orUnknown(intent.VehicleModel),
		orUnknown(intent.VehicleYear),
		need,
	)
}

func missingSlots(intent model.Intent) []string {
	var missing []string
	if intent.Category == "" {
		missing = append(missing, "tipo de produto")
	}
	if intent.VehicleModel == "" {
		missing = append(missing, "modelo do carro")
	}
	if intent.VehicleYear == "" {
		missing = append(missing, "ano do carro")
	}
	return missing
}

func orUnknown(v string) string {
	if v == "" {
		return "não sei"
	}
	return v
}

func renderHistory(turns []model.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Role, t.Text))
	}
	return strings.Join(lines, "\n")
}

func renderProducts(products []model.Product) string {
	lines := make([]string, 0, len(products))
	for i, p := range products {
		lines = append(lines, fmt.Sprintf("%d. %s - R$ %.2f", i+1, p.Name, p.Price))
	}
	return strings.Join(lines, "\n")
}
