package pricing

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var symbols = map[string]string{
	"THB": "฿",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

var printer = message.NewPrinter(language.English)

// FormatBase formats a base-currency amount with no decimals, e.g. ฿1,290
func FormatBase(amount float64, currency string) string {
	return FormatMoney(amount, currency, 0)
}

// FormatSecondary formats a secondary-currency amount with two decimals, e.g. $28.99
func FormatSecondary(amount float64, currency string) string {
	return FormatMoney(amount, currency, 2)
}

// FormatMoney formats amount with grouping and a fixed number of decimals
func FormatMoney(amount float64, currency string, decimals int) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	prefix, ok := symbols[code]
	if !ok {
		prefix = code + " "
	}
	return prefix + printer.Sprintf("%v", number.Decimal(amount, number.Scale(decimals)))
}
