package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

// Fixed replies of the purchase flow.
const (
	MsgUsage       = "Use: COMPRAR 1 (número do produto mostrado)"
	MsgSearchFirst = "Faça uma busca primeiro para ver produtos disponíveis!"
	MsgNotFound    = "Produto não encontrado! Verifique o número."
	MsgUnavailable = "Esse produto não está mais disponível. Quer ver outras opções?"
	MsgNoOrders    = "Você ainda não fez nenhum pedido."
)

// UserMessage returns the corrective reply for a validation or inventory
// error, or false for any other error.
func UserMessage(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, ErrUsage):
		return MsgUsage, true
	case errors.Is(err, ErrSearchFirst):
		return MsgSearchFirst, true
	case errors.Is(err, ErrProductNotFound):
		return MsgNotFound, true
	case IsInventoryConflict(err):
		return MsgUnavailable, true
	}
	return "", false
}

// Confirmation formats the reply for a created order.
func (m *Manager) Confirmation(o *model.Order) string {
	var b strings.Builder
	b.WriteString("Pedido confirmado!\n\n")
	fmt.Fprintf(&b, "📦 %s\n", o.ProductName)
	fmt.Fprintf(&b, "💰 R$ %.2f\n", o.Total)
	fmt.Fprintf(&b, "🆔 Pedido #%s\n\n", o.Reference())
	b.WriteString("Entraremos em contato para confirmar pagamento e entrega!\n\n")
	fmt.Fprintf(&b, "Digite %s para ver seu histórico.", m.cfg.HistoryCommand)
	return b.String()
}

// FormatHistory renders the order-history reply.
func FormatHistory(orders []model.Order) string {
	if len(orders) == 0 {
		return MsgNoOrders
	}

	var b strings.Builder
	b.WriteString("Seus pedidos:\n\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "🆔 #%s\n", o.Reference())
		fmt.Fprintf(&b, "📦 %s\n", o.ProductName)
		fmt.Fprintf(&b, "💰 R$ %.2f\n", o.Total)
		fmt.Fprintf(&b, "📊 %s\n", o.Status)
		fmt.Fprintf(&b, "📅 %s\n\n", o.CreatedAt.Format("02/01/2006"))
	}
	return strings.TrimRight(b.String(), "\n")
}
