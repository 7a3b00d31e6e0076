package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Inventory input grammar: one item per line (newline or ';' separated),
// tokens separated by ',' or '、'. The first token is the item name; the
// remaining tokens carry a consume amount and a stock amount in any order,
// each optionally prefixed with the 消費/在庫 label. Bare numbers fall back
// to positional order: consume first, stock second.
var inventoryLabelPattern = regexp.MustCompile(`^(消費|在庫)[::]?\s*(.+)$`)

func isInventoryLineBreak(r rune) bool {
	return r == '\n' || r == '\r' || r == ';' || r == '；'
}

func isInventoryTokenSeparator(r rune) bool {
	return r == ',' || r == '、'
}

// ParseInventoryInput parses user-supplied inventory text into items.
// Amounts are rounded to one decimal place; stock must be >= 0 and consume
// > 0 after rounding. Item names must be unique within one input.
func ParseInventoryInput(text string) ([]InventoryItem, error) {
	lines := strings.FieldsFunc(text, isInventoryLineBreak)

	items := make([]InventoryItem, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, err := parseInventoryLine(line)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[item.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItemName, item.Name)
		}
		seen[item.Name] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

func parseInventoryLine(line string) (InventoryItem, error) {
	tokens := strings.FieldsFunc(line, isInventoryTokenSeparator)
	if len(tokens) < 2 {
		return InventoryItem{}, fmt.Errorf("%w: inventory line %q needs a name and amounts", ErrInvalidFormat, line)
	}

	name := strings.TrimSpace(tokens[0])
	if name == "" {
		return InventoryItem{}, fmt.Errorf("%w: inventory line %q has no name", ErrInvalidFormat, line)
	}

	var consume, stock *decimal.Decimal
	for _, token := range tokens[1:] {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if m := inventoryLabelPattern.FindStringSubmatch(token); m != nil {
			amount, err := decimal.NewFromString(strings.TrimSpace(m[2]))
			if err != nil {
				return InventoryItem{}, fmt.Errorf("%w: amount %q in line %q", ErrInvalidFormat, token, line)
			}
			if m[1] == "消費" {
				consume = &amount
			} else {
				stock = &amount
			}
			continue
		}

		amount, err := decimal.NewFromString(token)
		if err != nil {
			return InventoryItem{}, fmt.Errorf("%w: token %q in line %q", ErrInvalidFormat, token, line)
		}
		switch {
		case consume == nil:
			consume = &amount
		case stock == nil:
			stock = &amount
		default:
			return InventoryItem{}, fmt.Errorf("%w: too many amounts in line %q", ErrInvalidFormat, line)
		}
	}

	if consume == nil {
		return InventoryItem{}, fmt.Errorf("%w: consume missing in line %q", ErrInvalidFormat, line)
	}
	if stock == nil {
		return InventoryItem{}, fmt.Errorf("%w: stock missing in line %q", ErrInvalidFormat, line)
	}

	roundedConsume := consume.Round(1)
	roundedStock := stock.Round(1)
	if roundedStock.IsNegative() {
		return InventoryItem{}, fmt.Errorf("%w: stock for %q is negative", ErrInvalidFormat, name)
	}
	if roundedConsume.Sign() <= 0 {
		return InventoryItem{}, fmt.Errorf("%w: consume for %q must be positive", ErrInvalidFormat, name)
	}

	return InventoryItem{Name: name, Stock: roundedStock, Consume: roundedConsume}, nil
}

// ConsumeInventory applies one consumption cycle and returns a new list.
// Stock may go negative or hit exactly zero.
func ConsumeInventory(items []InventoryItem) []InventoryItem {
	out := make([]InventoryItem, len(items))
	for i, item := range items {
		item.Stock = item.Stock.Sub(item.Consume).Round(1)
		out[i] = item
	}
	return out
}

// InsufficientInventoryItems returns the items that cannot cover the next
// consumption (stock < consume).
func InsufficientInventoryItems(items []InventoryItem) []InventoryItem {
	var short []InventoryItem
	for _, item := range items {
		if item.Stock.Cmp(item.Consume) < 0 {
			short = append(short, item)
		}
	}
	return short
}

// DepletedItems returns the items whose stock is at or below zero.
func DepletedItems(items []InventoryItem) []InventoryItem {
	var depleted []InventoryItem
	for _, item := range items {
		if item.Stock.Sign() <= 0 {
			depleted = append(depleted, item)
		}
	}
	return depleted
}

// FormatInventoryInput renders items back into the labeled line grammar so
// that ParseInventoryInput round-trips the result.
func FormatInventoryInput(items []InventoryItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s,消費%s,在庫%s", item.Name, FormatAmount(item.Consume), FormatAmount(item.Stock))
	}
	return strings.Join(lines, "\n")
}

// FormatAmount renders a one-decimal amount with a trailing ".0" stripped.
func FormatAmount(amount decimal.Decimal) string {
	return strings.TrimSuffix(amount.Round(1).String(), ".0")
}

// FormatItemNames joins item names with a center dot for notice text.
func FormatItemNames(items []InventoryItem) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names, "・")
}

// FormatShortageList renders shortage details, one "name(在庫x/消費y)" per
// item, comma-joined.
func FormatShortageList(items []InventoryItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s（在庫%s／消費%s）", item.Name, FormatAmount(item.Stock), FormatAmount(item.Consume))
	}
	return strings.Join(parts, "、")
}
